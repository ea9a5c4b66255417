package main

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/service"
)

func (cli *commandLine) createUserCmd() *cobra.Command {
	var (
		name, email, role, studentID string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "Enter password:")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				return errors.New("password required")
			}

			res, err := cli.users.Register(cmd.Context(), models.RegisterRequest{
				Name:          strings.TrimSpace(name),
				Email:         strings.TrimSpace(email),
				Password:      string(pwd),
				Role:          models.UserRole(strings.ToLower(role)),
				StudentNumber: strings.TrimSpace(studentID),
			}, service.RequestMeta{UserAgent: "spms-admin"})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", res.Role, res.Email, res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "student, teacher or admin")
	cmd.Flags().StringVar(&studentID, "student-id", "", "student code, required for students")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
