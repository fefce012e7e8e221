// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command wtclient spawns a wordtrie server, sends it msgpack requests and
// prints the decoded responses. Useful for checking the IPC protocol by hand.
//
//	wtclient -bin ./wordtrie -limit 5 ame hel
//	wtclient -add patricia,trie pat
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

func main() {
	bin := flag.String("bin", "./wordtrie", "Path to the wordtrie binary")
	limit := flag.Int("limit", 10, "Number of suggestions per prefix")
	add := flag.String("add", "", "Comma separated words to add before querying")
	stats := flag.Bool("stats", false, "Print server stats at the end")
	debug := flag.Bool("d", false, "Run the server in debug mode")
	flag.Parse()

	if flag.NArg() == 0 && *add == "" && !*stats {
		fmt.Fprintln(os.Stderr, "Usage: wtclient [flags] <prefix>...")
		os.Exit(1)
	}

	var reqs []server.Request
	if *add != "" {
		reqs = append(reqs, server.Request{ID: "add", Action: server.ActionAdd, Words: strings.Split(*add, ",")})
	}
	for i, prefix := range flag.Args() {
		reqs = append(reqs, server.Request{ID: fmt.Sprintf("req_%03d", i+1), Prefix: prefix, Limit: *limit})
	}
	if *stats {
		reqs = append(reqs, server.Request{ID: "stats", Action: server.ActionStats})
	}

	args := []string{}
	if *debug {
		args = append(args, "-d")
	}
	cmd := exec.Command(*bin, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Fatalf("Failed to get stdin pipe: %v", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Fatalf("Failed to get stdout pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start %s: %v", *bin, err)
	}

	dec := msgpack.NewDecoder(stdout)
	var ready server.StatusMessage
	if err := dec.Decode(&ready); err != nil {
		log.Fatalf("Failed to read ready message: %v", err)
	}
	log.Infof("Server %s with %d words", ready.Status, ready.Words)

	enc := msgpack.NewEncoder(stdin)
	for _, req := range reqs {
		if err := enc.Encode(req); err != nil {
			log.Fatalf("Failed to encode request %s: %v", req.ID, err)
		}

		// Responses share the id key, so decode generically first.
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			log.Fatalf("Failed to read response to %s: %v", req.ID, err)
		}
		if err := printResponse(req, raw); err != nil {
			log.Errorf("Failed to decode response to %s: %v", req.ID, err)
		}
	}

	stdin.Close()
	if err := cmd.Wait(); err != nil {
		log.Warnf("Server exited: %v", err)
	}
}

// printResponse re-decodes raw into the response type matching req.
func printResponse(req server.Request, raw map[string]any) error {
	data, err := msgpack.Marshal(raw)
	if err != nil {
		return err
	}

	if _, failed := raw["e"]; failed {
		var e server.CompletionError
		if err := msgpack.Unmarshal(data, &e); err != nil {
			return err
		}
		fmt.Printf("%s: error %d: %s\n", e.ID, e.Code, e.Error)
		return nil
	}

	switch req.Action {
	case server.ActionAdd:
		var resp server.AddResponse
		if err := msgpack.Unmarshal(data, &resp); err != nil {
			return err
		}
		fmt.Printf("%s: added %d words, %d stored\n", resp.ID, resp.Added, resp.Total)
	case server.ActionStats:
		var resp server.StatsResponse
		if err := msgpack.Unmarshal(data, &resp); err != nil {
			return err
		}
		for k, v := range resp.Stats {
			fmt.Printf("%-16s %d\n", k, v)
		}
	default:
		var resp server.CompletionResponse
		if err := msgpack.Unmarshal(data, &resp); err != nil {
			return err
		}
		fmt.Printf("Completion Results for '%s' (%d in %d µs):\n", req.Prefix, resp.Count, resp.TimeTaken)
		for _, s := range resp.Suggestions {
			fmt.Printf("  %2d. %s\n", s.Rank, wordStyle.Render(s.Word))
		}
	}
	return nil
}
