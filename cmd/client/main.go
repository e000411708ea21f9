package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"turnchat/client"
	"turnchat/domain"
	"turnchat/internal"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the connection lifecycle: a receiver goroutine interpreting
// server frames, and the interactive loop that sends a message whenever
// this participant holds the turn.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config internal.ClientConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := internal.Validate(config); err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect and start the receiver loop.
	c, err := client.Dial(config.ServerAddr, log)
	if err != nil {
		return exitRuntime, err
	}
	c.OnMessage = func(e domain.Entry) {
		color.Green.Printf("[%s -> %s] #%d %s\n", e.Sender, c.Role(), e.Seq, e.Text)
	}
	c.OnInfo = func(text string) {
		color.Yellow.Printf("[INFO] %s\n", text)
	}

	recvErr := make(chan error, 1)
	go func() {
		recvErr <- c.Run(ctx)
	}()

	// 4. Interactive send loop: wait for the turn, read one line, send it.
	// The client never prints its own message locally; the server does not
	// echo it back either.
	interact(ctx, c)

	// 5. Wait for the receiver to drain the final frames (INFO/SHUTDOWN).
	if err := <-recvErr; err != nil {
		return exitRuntime, err
	}
	log.Info("Client stopped cleanly", "role", c.Role())
	return exitOK, nil
}

func interact(ctx context.Context, c *client.Client) {
	in := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			_ = c.Quit()
			return
		case <-c.Done():
			return
		case <-c.Turns():
		}

		text, ok := prompt(c, in)
		if !ok {
			_ = c.Quit()
			return
		}
		if domain.IsLeaveText(text) {
			// The leave keyword rides inside a regular content frame; the
			// server treats it as a leave on its own.
			_ = c.Send(text)
			return
		}
		if err := c.Send(text); err != nil {
			return
		}
	}
}

// prompt reads one non-empty line. ok is false on EOF, which counts as a
// voluntary leave.
func prompt(c *client.Client, in *bufio.Reader) (string, bool) {
	for {
		color.Cyan.Printf("\n[%s] Type your message (or %q): ", c.Role(), domain.LeaveKeyword)
		line, err := in.ReadString('\n')
		text := strings.TrimSpace(line)
		if err != nil {
			return text, false
		}
		if text != "" {
			return text, true
		}
	}
}
