package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

var defaultSubjects = []models.CreateSubjectRequest{
	{Name: "Mathematics", Code: "MATH101", Teacher: "Dr. Sarah Johnson", Credits: 4, Semester: "1st", Description: "Introduction to calculus and algebra"},
	{Name: "Physics", Code: "PHYS101", Teacher: "Prof. Michael Chen", Credits: 4, Semester: "1st", Description: "Fundamentals of mechanics and thermodynamics"},
	{Name: "Computer Science", Code: "CS101", Teacher: "Dr. Emily Davis", Credits: 3, Semester: "1st", Description: "Introduction to programming and algorithms"},
}

func (cli *commandLine) seedSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-subjects",
		Short: "Create the default subject catalogue, skipping codes that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, skipped := 0, 0
			for _, req := range defaultSubjects {
				_, err := cli.subjects.Create(cmd.Context(), req)
				var appErr *appErrors.Error
				switch {
				case err == nil:
					created++
				case errors.As(err, &appErr) && appErr.Code == appErrors.ErrDuplicate.Code:
					skipped++
				default:
					return fmt.Errorf("seed %s: %w", req.Code, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subjects created: %d, skipped: %d\n", created, skipped)
			return nil
		},
	}
}
