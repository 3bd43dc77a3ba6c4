//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"inviter-backend/application/ports"
	"inviter-backend/application/services"
	"inviter-backend/infrastructure/config"
	"inviter-backend/interfaces/http/rest"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	GroupRepo         ports.GroupRepository
	HangoutRepo       ports.HangoutRepository
	SeriesRepo        ports.SeriesRepository
	PollRepo          ports.PollRepository
	CarpoolRepo       ports.CarpoolRepository
	ParticipationRepo ports.ParticipationRepository
	InviteRepo        ports.InviteRepository
	AuthRepo          ports.AuthRepository

	EventPublisher ports.EventPublisher

	GroupService   *services.GroupService
	HangoutService *services.HangoutService
	SeriesService  *services.SeriesService
	PollService    *services.PollService
	CarpoolService *services.CarpoolService
	InviteService  *services.InviteService

	Router *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideStore,
	ProvidePointerSync,
	ProvideGroupRepository,
	ProvideHangoutRepository,
	ProvideSeriesRepository,
	ProvidePollRepository,
	ProvideCarpoolRepository,
	ProvideParticipationRepository,
	ProvideInviteRepository,
	ProvideAuthRepository,
	ProvideEventPublisher,
	ProvideGroupService,
	ProvideHangoutService,
	ProvideSeriesService,
	ProvidePollService,
	ProvideCarpoolService,
	ProvideInviteService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
