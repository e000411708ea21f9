package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"

	"turnchat/domain"
)

// Config defines the orchestrator environment variables.
type Config struct {
	ServerBin string `envconfig:"SESSION_SERVER_BIN" default:"./bin/server"`
	ClientBin string `envconfig:"SESSION_CLIENT_BIN" default:"./bin/client"`
	Host      string `envconfig:"CHAT_HOST" default:"127.0.0.1"`
	Port      int    `envconfig:"CHAT_PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	// SESSION_BOOT_DELAY gives the server time to bind before clients dial
	BootDelay time.Duration `envconfig:"SESSION_BOOT_DELAY" default:"500ms"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run spawns one server and two clients as child processes and waits for
// the whole session to finish, mirroring a full local demo in a single
// terminal: since only the turn holder reads input at any moment, both
// clients can share stdin.
func run() error {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	starter := chooseStarter(os.Stdin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := command(ctx, config.ServerBin,
		"CHAT_HOST="+config.Host,
		fmt.Sprintf("CHAT_PORT=%d", config.Port),
		"CHAT_START_ROLE="+string(starter),
		"LOG_LEVEL="+config.LogLevel,
	)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	log.Info("Server started", "pid", server.Process.Pid, "addr", addr, "starter", starter)

	time.Sleep(config.BootDelay)

	clients := make([]*exec.Cmd, 0, 2)
	for range 2 {
		c := command(ctx, config.ClientBin,
			"CHAT_SERVER_ADDR="+addr,
			"LOG_LEVEL="+config.LogLevel,
		)
		c.Stdin = os.Stdin
		if err := c.Start(); err != nil {
			return fmt.Errorf("starting client: %w", err)
		}
		clients = append(clients, c)
		log.Info("Client started", "pid", c.Process.Pid)
	}

	for _, c := range clients {
		_ = c.Wait()
	}

	// Give the server a grace period to dump the history, then force it.
	done := make(chan error, 1)
	go func() { done <- server.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Warn("Server still running, terminating it")
		_ = server.Process.Kill()
		<-done
	}

	log.Info("All components stopped")
	return nil
}

// chooseStarter asks the operator which role opens the conversation.
func chooseStarter(in *os.File) domain.Role {
	fmt.Println("Choose who sends the first message:")
	fmt.Printf("1 %s\n2 %s\n", domain.RoleFirst, domain.RoleSecond)
	fmt.Print("Choice: ")

	choice, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(choice) == "2" {
		return domain.RoleSecond
	}
	return domain.RoleFirst
}

// command builds a child process inheriting our environment plus extra
// variables, with output attached to this terminal.
func command(ctx context.Context, bin string, extraEnv ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, bin)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setPlatformSpecificAttrs(cmd)
	return cmd
}
