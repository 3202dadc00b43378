package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/auth"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(staffAddCmd(), staffDisableCmd(), staffDeleteCmd())
	return cmd
}

func staffAddCmd() *cobra.Command {
	var id, role string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openAuth(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			if err := svc.Register(cmd.Context(), id, password, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", id, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "login id")
	cmd.Flags().StringVar(&role, "role", auth.RoleStaff, "staff or admin")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func staffDisableCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Disable a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openAuth(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.Disable(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "disabled %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "login id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func staffDeleteCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openAuth(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "login id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func openAuth(cmd *cobra.Command) (*auth.Service, func(), error) {
	cfg, conn, _, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cmd.Context(), conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return auth.NewService(conn, cfg.Auth), func() { conn.Close() }, nil
}

// readPassword masks input on a terminal and falls back to one line of stdin when piped.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
