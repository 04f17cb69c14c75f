// Command client is a terminal client for the territory conquest game:
// it joins or resumes a room, prints the authoritative state as it
// arrives, and turns typed commands into intents for the host.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"hexfront/internal/client"
	"hexfront/internal/game"
	"hexfront/internal/protocol"
)

func main() {
	server := flag.String("server", "localhost:30500", "server address")
	room := flag.String("room", "", "room code to join (empty creates a room)")
	name := flag.String("name", "", "player name")
	profile := flag.String("profile", "", "config profile for running multiple clients")
	resume := flag.Bool("resume", false, "rejoin the last session")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *profile != "" {
		client.SetProfile(*profile)
	}
	cfg, err := client.LoadConfig()
	if err != nil {
		logger.Warn("could not load saved session", "error", err)
	}

	sess := client.NewSession(cfg, logger)
	sess.OnStateUpdate = func(g *game.GameState) {
		fmt.Println()
		printState(g, sess.MyTeam())
		fmt.Print("> ")
	}
	sess.OnNotification = func(n game.Notification) {
		fmt.Printf("\n* %s\n> ", n.Message)
	}
	sess.OnServerError = func(code protocol.ErrorCode, message string) {
		fmt.Printf("\n! %s: %s\n> ", code, message)
	}
	sess.OnDisconnect = func(err error) {
		fmt.Printf("\nconnection lost: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *resume {
		err = sess.Rejoin(ctx, 5*time.Second)
	} else {
		if *name == "" {
			fmt.Fprintln(os.Stderr, "a -name is required unless resuming")
			os.Exit(2)
		}
		err = sess.Join(ctx, *server, *room, *name, 5*time.Second)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not join: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("joined room %s as %s\n", sess.RoomCode(), *name)
	fmt.Println("commands: start [practice] | attack <hex> <right|wrong> | card <id> [hex] | question <1-3> | state | quit")

	repl(sess)
}

func repl(sess *client.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Print("> ")
			continue
		}

		switch fields[0] {
		case "start":
			mode := game.ModeMultiplayer
			if len(fields) > 1 && fields[1] == "practice" {
				mode = game.ModePractice
			}
			sess.StartGame(mode, nil)

		case "attack":
			if len(fields) < 3 {
				fmt.Println("usage: attack <hex> <right|wrong>")
				break
			}
			if !sess.CanTarget(fields[1]) {
				fmt.Println("that hex is out of reach (the host would refuse it)")
				break
			}
			sess.RequestAttack(fields[1], fields[2] == "right", "")

		case "card":
			if len(fields) < 2 {
				fmt.Println("usage: card <id> [hex]")
				break
			}
			hex := ""
			if len(fields) > 2 {
				hex = fields[2]
			}
			if err := sess.RequestCardUse(game.CardID(fields[1]), hex); err != nil {
				fmt.Printf("cannot play card: %v\n", err)
			}

		case "question":
			difficulty := 2
			if len(fields) > 1 {
				if d, err := strconv.Atoi(fields[1]); err == nil {
					difficulty = d
				}
			}
			q, err := sess.NextQuestion(difficulty)
			if err != nil {
				fmt.Printf("no question: %v\n", err)
				break
			}
			fmt.Printf("question %s (difficulty %d)\n", q.ID, q.Difficulty)

		case "state":
			if g := sess.Snapshot(); g != nil {
				printState(g, sess.MyTeam())
			} else {
				fmt.Println("no match running")
			}

		case "quit":
			sess.Leave()
			return

		default:
			fmt.Println("unknown command")
		}
		fmt.Print("> ")
	}
}

// printState renders the projection as a sorted tile table plus team
// standings.
func printState(g *game.GameState, myTeam string) {
	keys := make([]string, 0, len(g.Tiles))
	for k := range g.Tiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		t := g.Tiles[k]
		owner := t.Owner
		if owner == "" {
			owner = "-"
		}
		difficulty := "?"
		if t.DifficultyVisible {
			difficulty = strconv.Itoa(t.Difficulty)
		}
		fmt.Printf("  %-10s owner=%-16s shield=%d/%d type=%-8s difficulty=%s\n",
			t.ID, owner, t.Shield, t.ShieldCap, t.Type, difficulty)
	}

	for _, name := range g.TeamOrder {
		team := g.Teams[name]
		marker := " "
		if name == g.ActiveTeam {
			marker = "*"
		}
		you := ""
		if name == myTeam {
			you = " (you)"
		}
		fmt.Printf("%s %s%s: %d tiles, shield %d, hand %v\n",
			marker, name, you, g.TileCount(name), g.ShieldSum(name), team.Hand)
	}
}
