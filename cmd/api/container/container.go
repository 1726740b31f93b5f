package container

import (
	"github.com/noteful/api/cmd/api/repository"
	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/bootstrap"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	UserRepo   *repository.UserRepository
	FolderRepo *repository.FolderRepository
	TagRepo    *repository.TagRepository
	NoteRepo   *repository.NoteRepository

	// Services
	Ownership     *service.OwnershipValidator
	Cascade       *service.CascadeCoordinator
	UserService   *service.UserService
	AuthService   *service.AuthService
	FolderService *service.FolderService
	TagService    *service.TagService
	NoteService   *service.NoteService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	// Initialize repositories
	userRepo := repository.NewUserRepository(components.DB)
	folderRepo := repository.NewFolderRepository(components.DB)
	tagRepo := repository.NewTagRepository(components.DB)
	noteRepo := repository.NewNoteRepository(components.DB)

	// Initialize services (bottom-up: dependencies first).
	// The ownership validator caches positive lookups through the
	// bootstrap cache; a nil cache disables caching entirely.
	ownership := service.NewOwnershipValidator(
		folderRepo,
		tagRepo,
		components.Cache,
		cfg.Cache.DefaultTTL,
		log,
	)
	cascade := service.NewCascadeCoordinator(folderRepo, tagRepo, noteRepo, ownership, log)

	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, log)
	folderService := service.NewFolderService(folderRepo, cascade, log)
	tagService := service.NewTagService(tagRepo, cascade, log)
	noteService := service.NewNoteService(noteRepo, ownership, log)

	return &Container{
		Components:    components,
		UserRepo:      userRepo,
		FolderRepo:    folderRepo,
		TagRepo:       tagRepo,
		NoteRepo:      noteRepo,
		Ownership:     ownership,
		Cascade:       cascade,
		UserService:   userService,
		AuthService:   authService,
		FolderService: folderService,
		TagService:    tagService,
		NoteService:   noteService,
	}, nil
}
