// Command maintenance runs one-off data tasks against the configured
// document store: seeding and repairing faculty records, downloading the
// reference faculty images and creating the admin account.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	appRepos "github.com/yigit/deptportal/internal/app/repositories"
	appServices "github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/bootstrap"
	"github.com/yigit/deptportal/internal/config"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/auth"
	"github.com/yigit/deptportal/internal/pkg/email"
	"github.com/yigit/deptportal/internal/pkg/logger"
	"github.com/yigit/deptportal/internal/seed"
)

const checkCollection = "maintenance_check"

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, out io.Writer) int {
	app := newApp(out)
	if err := app.Run(args); err != nil {
		lgr := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).With().Timestamp().Logger()
		lgr.Error().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

// env is what every command receives once config is loaded.
type env struct {
	cfg *config.Config
	lgr zerolog.Logger
}

type envKey struct{}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:           "maintenance",
		Usage:          "department portal data maintenance",
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			lgr := logger.Configure(logger.Config{
				Level:     logger.ParseLevel(cfg.Logging.Level),
				Pretty:    true,
				Output:    out,
				Component: "maintenance",
			})
			c.Context = context.WithValue(c.Context, envKey{}, &env{cfg: cfg, lgr: lgr})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "seed-faculty",
				Usage:  "insert the reference faculty records",
				Action: withStore(seedFaculty),
			},
			{
				Name:   "reseed-faculty",
				Usage:  "delete every faculty record and insert the reference set",
				Action: withStore(reseedFaculty),
			},
			{
				Name:  "download-images",
				Usage: "download the reference faculty images",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "target directory (defaults to images.download_dir)"},
					&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "per request timeout"},
				},
				Action: downloadImages,
			},
			{
				Name:   "fix-faculty",
				Usage:  "back-fill missing faculty fields",
				Action: withStore(fixFaculty),
			},
			{
				Name:   "verify-faculty",
				Usage:  "report required fields and image URLs per faculty record",
				Action: withStore(verifyFaculty),
			},
			{
				Name:   "check-faculty",
				Usage:  "print a summary of every faculty record",
				Action: withStore(checkFaculty),
			},
			{
				Name:   "test-connection",
				Usage:  "write and read back a test document, then show the first faculty record",
				Action: withStore(testConnection),
			},
			{
				Name:  "seed-admin",
				Usage: "create or promote the admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, EnvVars: []string{"ADMIN_EMAIL"}},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
					&cli.StringFlag{Name: "password", EnvVars: []string{"ADMIN_PASSWORD"}, Usage: "leave empty to keep an existing password"},
					&cli.StringFlag{Name: "uid", Usage: "fixed user id, e.g. from an external identity provider"},
				},
				Action: withStore(seedAdmin),
			},
		},
	}
}

func envFrom(c *cli.Context) *env {
	return c.Context.Value(envKey{}).(*env)
}

type storeAction func(c *cli.Context, e *env, store docstore.Store, repos *appRepos.Repositories) error

// withStore opens the store for one command and closes it afterwards.
func withStore(fn storeAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		e := envFrom(c)
		openCtx, cancel := context.WithTimeout(c.Context, 15*time.Second)
		store, err := bootstrap.SetupStore(openCtx, e.cfg, e.lgr)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				e.lgr.Warn().Err(err).Msg("Failed to close document store")
			}
		}()
		return fn(c, e, store, appRepos.NewRepositories(store))
	}
}

func seedFaculty(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	data, err := seed.Load()
	if err != nil {
		return err
	}
	n, err := seed.SeedFaculty(c.Context, repos.FacultyRepository, data.Faculty, e.lgr)
	if err != nil {
		return err
	}
	e.lgr.Info().Int("added", n).Msg("Faculty seeded")
	return nil
}

func reseedFaculty(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	data, err := seed.Load()
	if err != nil {
		return err
	}
	deleted, added, total, err := seed.ReseedFaculty(c.Context, repos.FacultyRepository, data.Faculty, e.lgr)
	if err != nil {
		return err
	}
	e.lgr.Info().Int("deleted", deleted).Int("added", added).Int64("total", total).Msg("Faculty reseeded")
	if total != int64(added) {
		return fmt.Errorf("expected %d faculty after reseed, found %d", added, total)
	}
	return nil
}

func downloadImages(c *cli.Context) error {
	e := envFrom(c)
	data, err := seed.Load()
	if err != nil {
		return err
	}
	dir := c.String("dir")
	if dir == "" {
		dir = e.cfg.Images.DownloadDir
	}
	client := &http.Client{Timeout: c.Duration("timeout")}
	results, err := seed.DownloadImages(c.Context, client, data.Images, dir, e.lgr)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.lgr.Info().Int("downloaded", len(results)-failed).Int("failed", failed).Str("dir", dir).Msg("Image download finished")
	return nil
}

func fixFaculty(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	results, err := seed.FixFaculty(c.Context, repos.FacultyRepository, e.lgr)
	if err != nil {
		return err
	}
	updated := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			e.lgr.Info().Str("name", r.Name).Msg("Already complete")
		case len(r.Updates) > 0:
			updated++
		}
		if r.Warning != "" {
			e.lgr.Warn().Str("id", r.ID).Str("name", r.Name).Msg(r.Warning)
		}
	}
	e.lgr.Info().Int("checked", len(results)).Int("updated", updated).Msg("Faculty fix finished")
	return nil
}

func verifyFaculty(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	report, err := seed.VerifyFaculty(c.Context, repos.FacultyRepository)
	if err != nil {
		return err
	}
	problems := 0
	for _, v := range report {
		ev := e.lgr.Info()
		if !v.OK() {
			ev = e.lgr.Warn()
			problems++
		}
		for _, f := range v.Fields {
			ev = ev.Bool(f.Field, f.Present)
		}
		if v.ImageURLValid != nil {
			ev = ev.Str("imageUrl", v.ImageURL).Bool("imageUrlValid", *v.ImageURLValid)
		}
		ev.Str("id", v.ID).Msg(v.Name)
	}
	e.lgr.Info().Int("total", len(report)).Int("incomplete", problems).Msg("Faculty verification finished")
	return nil
}

func checkFaculty(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	docs, err := repos.FacultyRepository.Documents(c.Context)
	if err != nil {
		return err
	}
	e.lgr.Info().Int("count", len(docs)).Msg("Faculty records")
	for _, doc := range docs {
		e.lgr.Info().
			Str("id", doc.ID).
			Interface("position", doc.Data["position"]).
			Interface("designation", doc.Data["designation"]).
			Interface("imageUrl", doc.Data["imageUrl"]).
			Interface("order", doc.Data["order"]).
			Msgf("%v", doc.Data["name"])
	}
	return nil
}

func testConnection(c *cli.Context, e *env, store docstore.Store, repos *appRepos.Repositories) error {
	ctx := c.Context
	id, err := store.Create(ctx, checkCollection, "", map[string]any{
		"message":   "connection test",
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if _, err := store.Get(ctx, checkCollection, id); err != nil {
		return fmt.Errorf("read back failed: %w", err)
	}
	if err := store.Delete(ctx, checkCollection, id); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	n, first, err := seed.FirstFaculty(ctx, repos.FacultyRepository)
	if err != nil {
		return err
	}
	e.lgr.Info().Str("driver", e.cfg.Store.Driver).Int64("faculty", n).Msg("Connection OK")
	if first != nil {
		e.lgr.Info().Str("id", first.ID).Interface("data", first.Data).Msg("First faculty record")
	}
	return nil
}

func seedAdmin(c *cli.Context, e *env, _ docstore.Store, repos *appRepos.Repositories) error {
	authService := appServices.NewAuthService(
		repos.UserRepository,
		repos.SessionRepository,
		auth.NewJWTService(auth.JWTConfig{
			SecretKey:      e.cfg.JWT.Secret,
			AccessTokenExp: e.cfg.AccessTokenTTL(),
			TokenIssuer:    e.cfg.JWT.Issuer,
		}),
		email.NewEmailService(email.LogSender{Logger: e.lgr}, email.Config{FromName: e.cfg.Email.FromName, FromEmail: e.cfg.Email.From}, e.lgr),
		appServices.AuthOptions{},
		e.lgr,
	)
	user, created, err := authService.EnsureAdmin(c.Context, c.String("uid"), c.String("email"), c.String("name"), c.String("password"))
	if err != nil {
		return err
	}
	if created && user.PasswordHash == "" {
		e.lgr.Warn().Msg("Admin has no password; use forgot password to set one")
	}
	e.lgr.Info().Str("id", user.ID).Str("email", user.Email).Bool("created", created).Msg("Admin account ready")
	return nil
}
