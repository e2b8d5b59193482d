package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"habitfree/internal/client"
	"habitfree/internal/config"
)

// sessionOptions are the account flags shared by the client commands.
type sessionOptions struct {
	username string
	password string
	register bool
}

func (o *sessionOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.username, "username", "", "account username")
	flags.StringVar(&o.password, "password", "", "account password")
	flags.BoolVar(&o.register, "register", false, "create the account before logging in")
}

// session is an authenticated connection to the server.
type session struct {
	cfg    *config.Config
	api    *client.Client
	userID int64
}

func openSession(ctx context.Context, opts *sessionOptions) (*session, error) {
	if opts.username == "" || opts.password == "" {
		return nil, errors.New("--username and --password are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.Client)
	userID, err := authenticate(ctx, api, opts)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, api: api, userID: userID}, nil
}

func authenticate(ctx context.Context, api *client.Client, opts *sessionOptions) (int64, error) {
	if opts.register {
		return api.Register(ctx, opts.username, opts.password)
	}
	return api.Login(ctx, opts.username, opts.password)
}
