// Package main is the entry point for the GroupOrder Hub admin CLI.
// It operates directly on the data file and is meant to be run while
// the server is stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/persist"
	"github.com/prn-tf/grouporder-hub/internal/service"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version":
		fmt.Printf("GroupOrder Hub Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		err = runUser(args)

	case "groups":
		err = runGroups(args)

	case "promote":
		err = runPromote(args)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the store over the given data file.
func openStore(dataFile string) (*store.Store, error) {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	file, err := persist.NewFile(dataFile, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	return store.Open(file, logger), nil
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: grouporder-admin user <create|list|delete> [flags]")
	}

	sub := args[0]
	fs := flag.NewFlagSet("user "+sub, flag.ExitOnError)
	dataFile := fs.String("data-file", "./storage/app-data.json", "path to the data file")

	switch sub {
	case "create":
		username := fs.String("username", "", "username (required)")
		password := fs.String("password", "", "password (required)")
		firstName := fs.String("first-name", "", "first name")
		lastName := fs.String("last-name", "", "last name")
		group := fs.String("group", "", "group name")
		email := fs.String("email", "", "email address")
		admin := fs.Bool("admin", false, "grant full admin")
		userAdmin := fs.Bool("user-admin", false, "grant user administration")
		coordinator := fs.Bool("coordinator", false, "grant group coordination")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		st, err := openStore(*dataFile)
		if err != nil {
			return err
		}

		users := service.NewUserService(st, nil, zerolog.Nop())
		user, err := users.AdminCreate(context.Background(), service.AdminCreateInput{
			Username:      *username,
			Password:      *password,
			FirstName:     *firstName,
			LastName:      *lastName,
			GroupName:     *group,
			Email:         *email,
			IsAdmin:       *admin,
			IsUserAdmin:   *userAdmin,
			IsCoordinator: *coordinator,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created user %d (%s)\n", user.ID, user.Username)
		return nil

	case "list":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		st, err := openStore(*dataFile)
		if err != nil {
			return err
		}

		users := service.NewUserService(st, nil, zerolog.Nop())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tGROUP\tROLES")
		for _, u := range users.List(context.Background()) {
			var roles []string
			if u.IsAdmin {
				roles = append(roles, "admin")
			}
			if u.IsUserAdmin {
				roles = append(roles, "user-admin")
			}
			if u.IsCoordinator {
				roles = append(roles, "coordinator")
			}
			fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\n",
				u.ID, u.Username, u.FirstName, u.LastName, u.GroupName, strings.Join(roles, ","))
		}
		return w.Flush()

	case "delete":
		id := fs.Int64("id", 0, "user id (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("--id is required")
		}

		st, err := openStore(*dataFile)
		if err != nil {
			return err
		}

		if err := st.DeleteUser(context.Background(), *id); err != nil {
			return err
		}
		fmt.Printf("Deleted user %d and their orders\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", sub)
	}
}

func runGroups(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: grouporder-admin groups <list|set> [flags]")
	}

	sub := args[0]
	fs := flag.NewFlagSet("groups "+sub, flag.ExitOnError)
	dataFile := fs.String("data-file", "./storage/app-data.json", "path to the data file")

	switch sub {
	case "list":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		st, err := openStore(*dataFile)
		if err != nil {
			return err
		}

		for _, name := range st.GetAvailableGroups(context.Background()) {
			fmt.Println(name)
		}
		return nil

	case "set":
		names := fs.String("names", "", "comma-separated group names (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *names == "" {
			return fmt.Errorf("--names is required")
		}

		st, err := openStore(*dataFile)
		if err != nil {
			return err
		}

		groups := service.NewGroupService(st, zerolog.Nop())
		updated, err := groups.Replace(context.Background(), strings.Split(*names, ","))
		if err != nil {
			return err
		}

		fmt.Printf("Registry now holds %d groups\n", len(updated))
		return nil

	default:
		return fmt.Errorf("unknown groups subcommand: %s", sub)
	}
}

func runPromote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)
	dataFile := fs.String("data-file", "./storage/app-data.json", "path to the data file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := openStore(*dataFile)
	if err != nil {
		return err
	}

	result := st.PromoteMembers(context.Background())
	fmt.Printf("Promoted %d members, removed %d at the final level\n", result.Promoted, result.Deleted)
	for _, tr := range result.Transitions {
		fmt.Printf("  %s -> %s\n", tr.From, tr.To)
	}
	return nil
}

func printUsage() {
	fmt.Println(`GroupOrder Hub Admin CLI

Usage:
  grouporder-admin <command> [arguments]

Commands:
  user        Manage accounts (create, list, delete)
  groups      Manage the group registry (list, set)
  promote     Run the end-of-cycle member promotion
  version     Print version information
  help        Show this help message

Examples:
  grouporder-admin user create --username admin@example.com --password secret --admin
  grouporder-admin user list --data-file ./storage/app-data.json
  grouporder-admin groups set --names "Team A,Team B,Office 1"
  grouporder-admin promote

Run these with the server stopped; the data file is not shared safely
between processes.`)
}
