package di

import (
	"fmt"

	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/partydex/partydex/internal/modules/team"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.DB == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	container.AuthRepo = auth.NewRepository(container.DB.Conn(), log)
	container.TeamRepo = team.NewRepository(container.DB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
