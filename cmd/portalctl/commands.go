package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/portalclient"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PORTAL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			res, err := client.Login(c.Context, dto.LoginRequest{
				Email:    c.String("email"),
				Password: c.String("password"),
			})
			if err != nil {
				return err
			}
			if err := resultError(res.Error, res.FieldErrors); err != nil {
				return err
			}
			return storeSession(c, res.Data)
		},
	}
}

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create an account and student profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "phone", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PORTAL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			password := c.String("password")
			res, err := client.Signup(c.Context, dto.SignupRequest{
				FirstName:       c.String("first-name"),
				LastName:        c.String("last-name"),
				Email:           c.String("email"),
				Phone:           c.String("phone"),
				Password:        password,
				ConfirmPassword: password,
			})
			if err != nil {
				return err
			}
			if err := resultError(res.Error, res.FieldErrors); err != nil {
				return err
			}
			if res.Data == nil || res.Data.AccessToken == "" {
				fmt.Fprintln(c.App.Writer, "Account created. Confirm your email, then run `portalctl login`.")
				return nil
			}
			return storeSession(c, res.Data)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show your consultations, earliest first",
		Action: func(c *cli.Context) error {
			client, err := authedClient(c)
			if err != nil {
				return err
			}
			list, student, err := loadList(c, client)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s %s\n\n", student.FirstName, student.LastName)
			printConsultations(c.App.Writer, list.Items())
			return nil
		},
	}
}

func bookCommand() *cli.Command {
	return &cli.Command{
		Name:  "book",
		Usage: "book a consultation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "reason", Required: true},
			&cli.StringFlag{Name: "at", Required: true, Usage: "date and time, e.g. 2030-05-01T09:30"},
		},
		Action: func(c *cli.Context) error {
			client, err := authedClient(c)
			if err != nil {
				return err
			}
			res, err := client.CreateConsultation(c.Context, dto.CreateConsultationRequest{
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				Reason:    c.String("reason"),
				Datetime:  c.String("at"),
			})
			if err != nil {
				return err
			}
			if err := resultError(res.Error, res.FieldErrors); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Booked %s for %s\n", res.Data.ID, res.Data.Datetime.Local().Format("Mon Jan 2 2006 15:04"))
			return nil
		},
	}
}

func toggleCommand() *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "mark a consultation complete or pending",
		ArgsUsage: "<consultation-id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("consultation id is required")
			}
			client, err := authedClient(c)
			if err != nil {
				return err
			}
			list, _, err := loadList(c, client)
			if err != nil {
				return err
			}
			res, err := list.Toggle(c.Context, client, id)
			if err != nil {
				return err
			}
			if err := resultError(res.Error, res.FieldErrors); err != nil {
				return err
			}
			updated, _ := list.Get(id)
			fmt.Fprintf(c.App.Writer, "%s is now %s\n", id, updated.Status())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the session and forget the token",
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			if client.Token() != "" {
				if _, err := client.Logout(c.Context); err != nil {
					fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
				}
			}
			if err := clearToken(c); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Logged out.")
			return nil
		},
	}
}

func storeSession(c *cli.Context, session *models.Session) error {
	if session == nil || session.AccessToken == "" {
		return errors.New("server returned no session")
	}
	if err := saveToken(c, session.AccessToken); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Logged in.")
	return nil
}

func loadList(c *cli.Context, client *portalclient.Client) (*portalclient.ConsultationList, *models.Student, error) {
	res, err := client.Dashboard(c.Context)
	if err != nil {
		return nil, nil, err
	}
	if res.Unauthorized {
		return nil, nil, errNotLoggedIn
	}
	if err := resultError(res.Error, res.FieldErrors); err != nil {
		return nil, nil, err
	}
	return portalclient.NewConsultationList(res.Data.Consultations), &res.Data.Student, nil
}

func printConsultations(w io.Writer, items []models.Consultation) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No consultations booked.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tREASON")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Datetime.Local().Format("2006-01-02 15:04"), item.Status(), item.Reason)
	}
	_ = tw.Flush()
}

// resultError folds an action result's messages into one error
func resultError(message string, fields map[string]string) error {
	if message != "" {
		return errors.New(message)
	}
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return errors.New(strings.Join(parts, "\n"))
}
