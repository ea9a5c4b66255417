package main

import (
	"context"
	"database/sql"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/service"
)

// mockable
var readPasswordFunc = term.ReadPassword

type subjectCreator interface {
	Create(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error)
}

type userRegistrar interface {
	Register(ctx context.Context, req models.RegisterRequest, meta service.RequestMeta) (*models.AuthResponse, error)
}

type commandLine struct {
	db       *sql.DB
	subjects subjectCreator
	users    userRegistrar
	logger   *zap.Logger
	out      io.Writer
}

func (cli *commandLine) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "spms-admin",
		Short:         "Administrative tasks for the student performance API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(cli.migrateCmd(), cli.seedSubjectsCmd(), cli.createUserCmd())
	return root
}
