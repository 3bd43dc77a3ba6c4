package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/interfaces/http/rest/handlers"
	"inviter-backend/interfaces/http/rest/middleware"
)

// Router wires the HTTP surface to the service layer
type Router struct {
	groups    *services.GroupService
	hangouts  *services.HangoutService
	series    *services.SeriesService
	polls     *services.PollService
	carpool   *services.CarpoolService
	invites   *services.InviteService
	jwtSecret string
	logger    *zap.Logger
}

// NewRouter creates a Router
func NewRouter(
	groups *services.GroupService,
	hangouts *services.HangoutService,
	series *services.SeriesService,
	polls *services.PollService,
	carpool *services.CarpoolService,
	invites *services.InviteService,
	jwtSecret string,
	logger *zap.Logger,
) *Router {
	return &Router{
		groups:    groups,
		hangouts:  hangouts,
		series:    series,
		polls:     polls,
		carpool:   carpool,
		invites:   invites,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.inviter.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwtSecret, rt.logger))

		groupHandler := handlers.NewGroupHandler(rt.groups, rt.logger)
		hangoutHandler := handlers.NewHangoutHandler(rt.hangouts, rt.logger)
		seriesHandler := handlers.NewSeriesHandler(rt.series, rt.logger)
		pollHandler := handlers.NewPollHandler(rt.polls, rt.logger)
		carpoolHandler := handlers.NewCarpoolHandler(rt.carpool, rt.logger)
		inviteHandler := handlers.NewInviteHandler(rt.invites, rt.logger)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", groupHandler.ListMyGroups)
			r.Post("/", groupHandler.CreateGroup)
			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", groupHandler.GetGroup)
				r.Patch("/", groupHandler.UpdateGroup)
				r.Delete("/", groupHandler.DeleteGroup)
				r.Get("/members", groupHandler.ListMembers)
				r.Delete("/members/{userID}", groupHandler.RemoveMember)
				r.Get("/feed", hangoutHandler.Feed)
				r.Get("/invites", inviteHandler.ListInvites)
				r.Post("/invites", inviteHandler.MintInvite)
			})
		})

		r.Route("/hangouts", func(r chi.Router) {
			r.Post("/", hangoutHandler.CreateHangout)
			r.Route("/{hangoutID}", func(r chi.Router) {
				r.Get("/", hangoutHandler.GetHangout)
				r.Patch("/", hangoutHandler.UpdateHangout)
				r.Delete("/", hangoutHandler.DeleteHangout)
				r.Put("/interest", hangoutHandler.SetInterest)

				r.Route("/polls", func(r chi.Router) {
					r.Get("/", pollHandler.ListPolls)
					r.Post("/", pollHandler.CreatePoll)
					r.Route("/{pollID}", func(r chi.Router) {
						r.Get("/", pollHandler.GetPoll)
						r.Delete("/", pollHandler.DeletePoll)
						r.Put("/vote", pollHandler.CastVote)
						r.Delete("/vote/{optionID}", pollHandler.RemoveVote)
					})
				})

				r.Route("/carpool", func(r chi.Router) {
					r.Get("/", carpoolHandler.ListCarpool)
					r.Post("/", carpoolHandler.OfferCar)
					r.Route("/{carID}", func(r chi.Router) {
						r.Delete("/", carpoolHandler.WithdrawCar)
						r.Post("/claim", carpoolHandler.ClaimSeat)
						r.Delete("/claim", carpoolHandler.ReleaseSeat)
					})
				})

				r.Put("/needs-ride", carpoolHandler.RequestRide)
				r.Delete("/needs-ride", carpoolHandler.CancelRideRequest)
			})
		})

		r.Route("/series", func(r chi.Router) {
			r.Post("/", seriesHandler.CreateSeries)
			r.Route("/{seriesID}", func(r chi.Router) {
				r.Get("/", seriesHandler.GetSeries)
				r.Delete("/", seriesHandler.DeleteSeries)
				r.Post("/parts", seriesHandler.AddPart)
				r.Delete("/parts/{hangoutID}", seriesHandler.RemovePart)
			})
		})

		r.Post("/invites/join", inviteHandler.Join)
		r.Delete("/invites/{code}", inviteHandler.RevokeInvite)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
