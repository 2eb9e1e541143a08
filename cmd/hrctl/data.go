package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/hrportal/internal/app"
	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
)

var resourceUsage = "RESOURCE is one of: " + strings.Join(apiclient.ResourceNames(), ", ")

// resource resolves the first argument and applies its role requirement.
func resource(c *cli.Context) (*apiclient.Resource[apiclient.Record], error) {
	name := c.Args().First()
	if name == "" {
		return nil, errors.New("missing RESOURCE argument; " + resourceUsage)
	}
	res, err := appFrom(c).API.Resource(name)
	if err != nil {
		return nil, fmt.Errorf("unknown resource %q; %s", name, resourceUsage)
	}
	if err := authorize(c, name, app.RequiredRoles(name)...); err != nil {
		return nil, err
	}
	return res, nil
}

// writable resolves the resource like resource and also requires the
// capability to modify it.
func writable(c *cli.Context) (*apiclient.Resource[apiclient.Record], error) {
	res, err := resource(c)
	if err != nil {
		return nil, err
	}
	name := c.Args().First()
	s := appFrom(c).Session
	if capability, ok := app.WriteCapability(name); !ok || !s.Can(capability) {
		return nil, &userError{
			msg: fmt.Sprintf("role %q cannot modify %s", s.Snapshot().User.Role, name),
			err: rbac.ErrInsufficientPermissions,
		}
	}
	return res, nil
}

func idArg(c *cli.Context) (string, error) {
	id := c.Args().Get(1)
	if id == "" {
		return "", errors.New("missing ID argument")
	}
	return id, nil
}

// record reads the payload from --data or --file ("-" for stdin).
func record(c *cli.Context) (apiclient.Record, error) {
	raw := []byte(c.String("data"))
	if path := c.String("file"); path != "" {
		var err error
		if path == "-" {
			raw, err = io.ReadAll(c.App.Reader)
		} else {
			raw, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(raw) == 0 {
		return nil, errors.New("provide the record with --data or --file")
	}
	var rec apiclient.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("record must be a JSON object: %w", err)
	}
	return rec, nil
}

var payloadFlags = []cli.Flag{
	&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "record as a JSON object"},
	&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the record from `FILE` (- for stdin)"},
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list records",
		ArgsUsage: "RESOURCE",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "filter", Usage: "query parameter as key=value, repeatable"},
		},
		Action: func(c *cli.Context) error {
			res, err := resource(c)
			if err != nil {
				return err
			}
			filter, err := apiclient.ParseFilter(c.StringSlice("filter"))
			if err != nil {
				return err
			}
			records, err := res.List(c.Context, filter)
			if err != nil {
				return failure(c, err)
			}
			return output(c, records)
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show one record",
		ArgsUsage: "RESOURCE ID",
		Action: func(c *cli.Context) error {
			res, err := resource(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			rec, err := res.Get(c.Context, id)
			if err != nil {
				return failure(c, err)
			}
			return output(c, rec)
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create a record",
		ArgsUsage: "RESOURCE",
		Flags:     payloadFlags,
		Action: func(c *cli.Context) error {
			res, err := writable(c)
			if err != nil {
				return err
			}
			in, err := record(c)
			if err != nil {
				return err
			}
			out, err := res.Create(c.Context, in)
			if err != nil {
				return failure(c, err)
			}
			return output(c, out)
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "replace a record",
		ArgsUsage: "RESOURCE ID",
		Flags:     payloadFlags,
		Action: func(c *cli.Context) error {
			res, err := writable(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			in, err := record(c)
			if err != nil {
				return err
			}
			out, err := res.Update(c.Context, id, in)
			if err != nil {
				return failure(c, err)
			}
			return output(c, out)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a record",
		ArgsUsage: "RESOURCE ID",
		Action: func(c *cli.Context) error {
			res, err := writable(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			if err := res.Delete(c.Context, id); err != nil {
				return failure(c, err)
			}
			return output(c, map[string]string{"status": "deleted", "id": id})
		},
	}
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:        "dashboard",
		Usage:       "fetch a dashboard metric",
		ArgsUsage:   "METRIC",
		Description: "METRIC is one of: " + strings.Join(apiclient.MetricNames(), ", "),
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "months", Value: apiclient.DefaultHistoryMonths, Usage: "history window for movement-history"},
		},
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return errors.New("missing METRIC argument")
			}
			if err := authorize(c, "the dashboard"); err != nil {
				return err
			}

			dash := appFrom(c).API.Dashboard()
			var (
				data json.RawMessage
				err  error
			)
			if name == apiclient.MetricMovementHistory {
				data, err = dash.MovementHistory(c.Context, c.Int("months"))
			} else {
				data, err = dash.Metric(c.Context, name)
			}
			if errors.Is(err, apiclient.ErrUnknownMetric) {
				return fmt.Errorf("unknown metric %q", name)
			}
			if err != nil {
				return failure(c, err)
			}
			return output(c, data)
		},
	}
}
