package di

import (
	"context"

	"inviter-backend/application/ports"
	"inviter-backend/application/services"
	"inviter-backend/infrastructure/config"
	"inviter-backend/infrastructure/messaging/eventbridge"
	"inviter-backend/infrastructure/persistence/dynamodb"
	"inviter-backend/interfaces/http/rest"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideStore creates the single-table store all repositories share
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) dynamodb.Store {
	return dynamodb.NewStore(client, cfg.DynamoDBTable, logger)
}

// ProvidePointerSync creates the pointer synchronizer
func ProvidePointerSync(store dynamodb.Store, logger *zap.Logger) *dynamodb.PointerSync {
	return dynamodb.NewPointerSync(store, logger)
}

// ProvideGroupRepository creates a group repository
func ProvideGroupRepository(store dynamodb.Store, logger *zap.Logger) ports.GroupRepository {
	return dynamodb.NewGroupRepository(store, logger)
}

// ProvideHangoutRepository creates a hangout repository
func ProvideHangoutRepository(store dynamodb.Store, pointer *dynamodb.PointerSync, logger *zap.Logger) ports.HangoutRepository {
	return dynamodb.NewHangoutRepository(store, pointer, logger)
}

// ProvideSeriesRepository creates a series repository
func ProvideSeriesRepository(store dynamodb.Store, pointer *dynamodb.PointerSync, logger *zap.Logger) ports.SeriesRepository {
	return dynamodb.NewSeriesRepository(store, pointer, logger)
}

// ProvidePollRepository creates a poll repository
func ProvidePollRepository(store dynamodb.Store, logger *zap.Logger) ports.PollRepository {
	return dynamodb.NewPollRepository(store, logger)
}

// ProvideCarpoolRepository creates a carpool repository
func ProvideCarpoolRepository(store dynamodb.Store, logger *zap.Logger) ports.CarpoolRepository {
	return dynamodb.NewCarpoolRepository(store, logger)
}

// ProvideParticipationRepository creates a participation repository
func ProvideParticipationRepository(store dynamodb.Store, logger *zap.Logger) ports.ParticipationRepository {
	return dynamodb.NewParticipationRepository(store, logger)
}

// ProvideInviteRepository creates an invite repository
func ProvideInviteRepository(store dynamodb.Store, logger *zap.Logger) ports.InviteRepository {
	return dynamodb.NewInviteRepository(store, logger)
}

// ProvideAuthRepository creates an auth repository
func ProvideAuthRepository(store dynamodb.Store, logger *zap.Logger) ports.AuthRepository {
	return dynamodb.NewAuthRepository(store, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideGroupService creates the group service
func ProvideGroupService(
	groups ports.GroupRepository,
	invites ports.InviteRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.GroupService {
	return services.NewGroupService(groups, invites, publisher, logger)
}

// ProvideHangoutService creates the hangout service
func ProvideHangoutService(
	hangouts ports.HangoutRepository,
	carpool ports.CarpoolRepository,
	participations ports.ParticipationRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.HangoutService {
	return services.NewHangoutService(hangouts, carpool, participations, publisher, logger)
}

// ProvideSeriesService creates the series service
func ProvideSeriesService(
	series ports.SeriesRepository,
	hangouts ports.HangoutRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.SeriesService {
	return services.NewSeriesService(series, hangouts, publisher, logger)
}

// ProvidePollService creates the poll service
func ProvidePollService(polls ports.PollRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.PollService {
	return services.NewPollService(polls, publisher, logger)
}

// ProvideCarpoolService creates the carpool service
func ProvideCarpoolService(carpool ports.CarpoolRepository, logger *zap.Logger) *services.CarpoolService {
	return services.NewCarpoolService(carpool, logger)
}

// ProvideInviteService creates the invite service
func ProvideInviteService(
	invites ports.InviteRepository,
	groups ports.GroupRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.InviteService {
	return services.NewInviteService(invites, groups, publisher, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	groups *services.GroupService,
	hangouts *services.HangoutService,
	series *services.SeriesService,
	polls *services.PollService,
	carpool *services.CarpoolService,
	invites *services.InviteService,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(groups, hangouts, series, polls, carpool, invites, cfg.JWTSecret, logger)
}
