package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"podium/internal/app"
	"podium/internal/config"
	"podium/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := store.New(cfg.DataDir, log.Named("store"))
	if err != nil {
		log.Fatal("open data dir", zap.Error(err))
	}

	client := app.New(app.Config{
		ServerURL:            cfg.ServerURL,
		ReconnectMaxAttempts: cfg.ReconnectMaxAttempts,
		ReconnectDelay:       cfg.ReconnectDelay,
	}, st, consoleNotifier{}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go readCommands(ctx, client.Inbox())

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("client", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"podium.log"}
	return zc.Build()
}

// readCommands turns stdin lines into loop commands.
func readCommands(ctx context.Context, inbox chan<- app.Msg) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		msg, ok := parseCommand(sc.Text())
		if !ok {
			fmt.Println("commands: login <user> <pass> | register <user> <pass> <confirm> | queue | dequeue | say <argument> | lobby | admin <users|debates|topics> | logout | quit")
			continue
		}
		select {
		case inbox <- msg:
		case <-ctx.Done():
			return
		}
		if _, quit := msg.(app.Shutdown); quit {
			return
		}
	}
}

func parseCommand(line string) (app.Msg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	switch fields[0] {
	case "login":
		if len(fields) != 3 {
			return nil, false
		}
		return app.Authenticate{Username: fields[1], Password: fields[2]}, true
	case "register":
		if len(fields) != 4 {
			return nil, false
		}
		return app.CreateAccount{Username: fields[1], Password: fields[2], Confirm: fields[3]}, true
	case "queue":
		return app.JoinQueue{}, true
	case "dequeue":
		return app.LeaveQueue{}, true
	case "start":
		if len(fields) != 2 {
			return nil, false
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, false
		}
		return app.StartDebate{DebateID: id}, true
	case "say":
		if len(fields) < 2 {
			return nil, false
		}
		return app.SubmitArgument{Content: strings.Join(fields[1:], " ")}, true
	case "lobby":
		return app.LeaveDebate{}, true
	case "admin":
		if len(fields) != 2 {
			return nil, false
		}
		return app.AdminGetData{DataType: fields[1]}, true
	case "logout":
		return app.Logout{}, true
	case "quit", "exit":
		return app.Shutdown{}, true
	default:
		return nil, false
	}
}
