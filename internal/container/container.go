package container

import (
	app "watermark-remover/internal/application"
	"watermark-remover/internal/domain/port"
)

type Container struct {
	UserService    *app.UserService
	RemovalService *app.RemovalService
}

func New(userRepo port.UserRepository, remover port.WatermarkRemover) *Container {
	userService := app.NewUserService(userRepo)
	removalService := app.NewRemovalService(userService, remover)

	return &Container{
		UserService:    userService,
		RemovalService: removalService,
	}
}
