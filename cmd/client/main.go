package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"chat-relay/protocol"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:1234"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

// lastCommand remembers what was sent so a received ERROR code can be
// interpreted: codes are only meaningful relative to their command.
type lastCommand struct {
	mu  sync.Mutex
	cmd protocol.ClientCommand
}

func (l *lastCommand) set(cmd protocol.ClientCommand) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cmd = cmd
}

func (l *lastCommand) get() protocol.ClientCommand {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cmd
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	color.Green.Printf("Connected to %s (Ctrl+C to quit)\n", config.ServerAddress)

	last := &lastCommand{}

	// Server lines arrive unsolicited (relays) as well as in response to
	// our own commands; a dedicated reader keeps both flowing while stdin
	// blocks below.
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			printServerLine(scanner.Text(), last)
		}
		color.Yellow.Println("Server closed the connection")
		stop()
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			break
		}
		request, cmd, ok := buildRequest(stdin.Text())
		if !ok {
			continue
		}
		last.set(cmd)
		if _, err := fmt.Fprintf(conn, "%s\n", request); err != nil {
			return exitRuntime, fmt.Errorf("send failed: %w", err)
		}
	}
	return exitOK, nil
}

// buildRequest validates arity locally and normalizes group names to
// uppercase before transmission, as the protocol expects from clients.
func buildRequest(input string) (string, protocol.ClientCommand, bool) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	if verb == "" {
		return "", "", false
	}
	cmd := protocol.ClientCommand(strings.ToUpper(verb))

	switch cmd {
	case protocol.CmdJoin:
		if rest == "" {
			color.Red.Println("Usage: JOIN <name>")
			return "", "", false
		}
		return fmt.Sprintf("%s %s", cmd, rest), cmd, true

	case protocol.CmdSendPrivate, protocol.CmdSendGroup:
		target, content, hasContent := strings.Cut(rest, " ")
		if target == "" || !hasContent {
			color.Red.Printf("Usage: %s <target> <message>\n", cmd)
			return "", "", false
		}
		if cmd == protocol.CmdSendGroup {
			target = strings.ToUpper(target)
		}
		return fmt.Sprintf("%s %s %s", cmd, target, content), cmd, true

	case protocol.CmdParticipate, protocol.CmdHistory:
		if rest == "" {
			color.Red.Printf("Usage: %s <group>\n", cmd)
			return "", "", false
		}
		return fmt.Sprintf("%s %s", cmd, strings.ToUpper(rest)), cmd, true

	case protocol.CmdListGroups, protocol.CmdListUsers:
		return string(cmd), cmd, true

	default:
		color.Red.Printf("Invalid command: %s\n", input)
		return "", "", false
	}
}

func printServerLine(line string, last *lastCommand) {
	verb, rest, _ := strings.Cut(line, " ")

	switch protocol.ServerVerb(verb) {
	case protocol.VerbOK:
		color.Green.Println("OK")

	case protocol.VerbError:
		code, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			color.Red.Printf("Malformed error reply: %q\n", line)
			return
		}
		if message, ok := protocol.Describe(last.get(), code); ok {
			color.Red.Printf("Error: %s\n", message)
			return
		}
		color.Red.Printf("Error %d (unknown for %s)\n", code, last.get())

	case protocol.VerbReceivePrivate:
		sender, content, _ := strings.Cut(rest, " ")
		color.Cyan.Printf("[private] %s: %s\n", sender, content)

	case protocol.VerbReceiveGroup:
		group, tail, _ := strings.Cut(rest, " ")
		sender, content, _ := strings.Cut(tail, " ")
		color.Magenta.Printf("[%s] %s: %s\n", group, sender, content)

	case protocol.VerbHistory:
		if rest == "" {
			color.Yellow.Println("No history for this group")
			return
		}
		for _, record := range strings.Split(rest, "|") {
			fmt.Println(record)
		}

	case protocol.VerbListGroups:
		renderNameTable("Group", strings.Fields(rest))

	case protocol.VerbListUsers:
		renderNameTable("User", strings.Fields(rest))

	default:
		fmt.Println(line)
	}
}

func renderNameTable(header string, names []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{header})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, name := range names {
		table.Append([]string{name})
	}
	table.Render()
}
