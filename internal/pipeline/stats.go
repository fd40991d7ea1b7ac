package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"gopkg.in/yaml.v3"
)

// Stats counts the rows one run wrote.
type Stats struct {
	Customers    int `json:"customers" yaml:"customers"`
	Accounts     int `json:"accounts" yaml:"accounts"`
	Transactions int `json:"transactions" yaml:"transactions"`
	Alerts       int `json:"alerts" yaml:"alerts"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d customers | %d accounts | %d transactions | %d alerts",
		s.Customers, s.Accounts, s.Transactions, s.Alerts)
}

// Render writes s as text, json or yaml.
func (s Stats) Render(w io.Writer, format string) error {
	switch format {
	case "", "text":
		_, err := fmt.Fprintln(w, s.String())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperr.InvalidArgument("unsupported output format: %s (text, json, yaml)", format)
	}
}
