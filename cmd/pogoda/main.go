package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/pogoda/internal/api"
	"github.com/lox/pogoda/internal/screen"
	"github.com/lox/pogoda/internal/session"
	"github.com/lox/pogoda/internal/store"
)

type CLI struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	DB       string `help:"SQLite database path" default:":memory:" env:"POGODA_DB"`
	Timezone string `help:"Timezone used to pick the theme" default:"Europe/Moscow" env:"POGODA_TZ"`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Run the weather screen server"`
	Seed  SeedCmd  `cmd:"" help:"Seed the database with the mock weather catalogue and exit"`
}

type ServeCmd struct {
	Port          string        `help:"HTTP server port" default:"8080" env:"PORT"`
	LoadingDelay  time.Duration `help:"How long a new screen shows the loading view" default:"1s"`
	SessionIdle   time.Duration `help:"Tear down screens idle for this long" default:"30m"`
	MutationRPS   float64       `name:"mutation-rps" help:"Sustained state changes per second across all sessions" default:"20"`
	MutationBurst int           `help:"Burst size for state changes" default:"40"`
}

type SeedCmd struct{}

func openStore(ctx context.Context, path string) (*store.Store, error) {
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("database migrated")

	if err := st.SeedMock(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return st, nil
}

func (c *SeedCmd) Run(cli *CLI) error {
	st, err := openStore(context.Background(), cli.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Println("done")
	return nil
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Printf("Warning: could not load %s timezone, using UTC: %v", cli.Timezone, err)
		loc = time.UTC
	}

	st, err := openStore(ctx, cli.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	locations, err := st.Locations(ctx)
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}

	sessions := session.NewRegistry(locations,
		session.WithIdleTimeout(c.SessionIdle),
		session.WithScreenOptions(screen.WithLoadingDelay(c.LoadingDelay)),
	)
	go sessions.Run(ctx)

	server := api.NewServer(st, sessions, api.Config{
		Port:          c.Port,
		Location:      loc,
		MutationRPS:   c.MutationRPS,
		MutationBurst: c.MutationBurst,
	})

	log.Printf("starting server on :%s (%d locations)", c.Port, len(locations))
	return server.Run(ctx)
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pogoda"),
		kong.Description("Mobile-style weather screen served over HTTP."),
		kong.UsageOnError(),
	)
	if err := kctx.Run(&cli); err != nil {
		log.Fatalf("%s: %v", kctx.Command(), err)
	}
}
