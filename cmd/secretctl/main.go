// secretctl is a command-line client for a secretlink server.
//
// Usage:
//
//	secretctl create [-one-time] [-expires RFC3339] [-password] < file
//	secretctl get [-password] <id>
//	secretctl viewed <id>
//	secretctl list
//	secretctl delete <id>
//
// The server address comes from -server or SECRETLINK_SERVER, the bearer
// token from -token or SECRETLINK_TOKEN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/avolkovs/secretlink/internal/client"
	"github.com/avolkovs/secretlink/internal/common"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "Enter password:")
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("secretctl", flag.ExitOnError)
	server := fs.String("server", envOr("SECRETLINK_SERVER", "http://localhost:8080"), "server base URL")
	token := fs.String("token", os.Getenv("SECRETLINK_TOKEN"), "bearer token for owner operations")

	oneTime := fs.Bool("one-time", false, "create: secret is destroyed after first view")
	expires := fs.String("expires", "", "create: expiry as an RFC3339 timestamp")
	withPassword := fs.Bool("password", false, "create/get: prompt for a password")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: secretctl [flags] create|get|viewed|list|delete")
	}

	ctx := context.Background()
	c := client.New(*server, *token)

	switch cmd := fs.Arg(0); cmd {
	case "create":
		return runCreate(ctx, c, *oneTime, *expires, *withPassword)
	case "get":
		return runGet(ctx, c, fs.Arg(1), *withPassword)
	case "viewed":
		if fs.Arg(1) == "" {
			return errors.New("usage: secretctl viewed <id>")
		}
		return c.MarkViewed(ctx, fs.Arg(1))
	case "list":
		return runList(ctx, c)
	case "delete":
		if fs.Arg(1) == "" {
			return errors.New("usage: secretctl delete <id>")
		}
		return c.Delete(ctx, fs.Arg(1))
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func runCreate(ctx context.Context, c *client.Client, oneTime bool, expires string, withPassword bool) error {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	req := &client.CreateRequest{
		Content:   strings.TrimRight(string(content), "\n"),
		IsOneTime: oneTime,
	}
	if expires != "" {
		req.ExpiresAt = &expires
	}
	if withPassword {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		req.Password = string(pw)
	}

	id, err := c.Create(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}

func runGet(ctx context.Context, c *client.Client, id string, withPassword bool) error {
	if id == "" {
		return errors.New("usage: secretctl get [-password] <id>")
	}

	var password string
	if withPassword {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		password = string(pw)
	}

	view, err := c.Get(ctx, id, password)
	if errors.Is(err, common.ErrorUnauthorized) && !withPassword {
		return errors.New("secret is password protected, retry with -password")
	}
	if err != nil {
		return err
	}

	fmt.Println(view.Content)
	return nil
}

func runList(ctx context.Context, c *client.Client) error {
	list, err := c.List(ctx)
	if err != nil {
		return err
	}

	for _, s := range list {
		flags := make([]string, 0, 3)
		if s.IsOneTime {
			flags = append(flags, "one-time")
		}
		if s.IsViewed {
			flags = append(flags, "viewed")
		}
		if s.HasPassword {
			flags = append(flags, "password")
		}
		fmt.Printf("%s\t%s\texpires %s\t[%s]\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.ExpiresAt.Format("2006-01-02 15:04"),
			strings.Join(flags, ","))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
