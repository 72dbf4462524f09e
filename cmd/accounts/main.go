package main

import (
	"context"
	"log/slog"
	"os"

	"accounts/config"
	"accounts/internal/delivery"
	"accounts/internal/delivery/http"
	"accounts/internal/delivery/http/middleware"
	"accounts/internal/delivery/http/router/handler"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/infra/auth"
	logs "accounts/internal/infra/log"
	"accounts/internal/infra/persistence/postgres"
	"accounts/internal/usecase"
	"accounts/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAdminUser,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewUserService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

type seedAdminParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	UserUc usecase.UserUsecase
}

// seedAdminUser registers the configured bootstrap admin account on startup.
// An already-registered username or email is logged and ignored so restarts
// stay idempotent.
func seedAdminUser(params seedAdminParams) {
	if params.Config.Admin == nil || params.Config.Admin.Username == "" {
		return
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			admin := params.Config.Admin
			_, err := params.UserUc.Register(ctx, &usecase.RegisterUserInput{
				Username:  admin.Username,
				Email:     admin.Email,
				Password:  admin.Password,
				FirstName: optional(admin.FirstName),
				LastName:  optional(admin.LastName),
				Avatar:    optional(admin.Avatar),
				About:     optional(admin.About),
				Superuser: admin.Superuser,
			})
			if err != nil {
				if errors.Is(err, domainerrors.ErrUsernameAlreadyExists) || errors.Is(err, domainerrors.ErrEmailAlreadyExists) {
					params.Logger.Info("Bootstrap admin already registered", slog.String("username", admin.Username))

					return nil
				}

				return errors.Wrap(err, "failed to seed bootstrap admin")
			}
			params.Logger.Info("Bootstrap admin registered", slog.String("username", admin.Username))

			return nil
		},
	})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
