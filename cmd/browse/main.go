// Package main provides the terminal catalog browser.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/up4down/up4down-server/internal/mdns"
	"github.com/up4down/up4down-server/internal/tui"
)

// slugList collects repeated -category flags.
type slugList []string

func (s *slugList) String() string { return fmt.Sprint([]string(*s)) }

func (s *slugList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var categories slugList
	addr := flag.String("addr", "http://localhost:8080", "catalog server address")
	discover := flag.Bool("discover", false, "find a server on the local network via mDNS")
	flag.Var(&categories, "category", "category slug to pre-select (repeatable)")
	flag.Parse()

	serverAddr := *addr
	if *discover {
		servers, err := mdns.Discover(2 * time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
			os.Exit(1)
		}
		if len(servers) == 0 {
			fmt.Fprintln(os.Stderr, "no catalog servers found on the local network")
			os.Exit(1)
		}
		serverAddr = servers[0].Addr
		fmt.Printf("Found %s at %s\n", servers[0].Name, serverAddr)
	}

	client := tui.NewClient(serverAddr)
	model := tui.New(client, categories)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "browser error: %v\n", err)
		os.Exit(1)
	}
}
