package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the configured server profiles",
	Long:  "List every server profile with its host, port, TLS mode and whether sender\ncredentials are configured. Credentials themselves are never printed.",
	RunE:  runProfiles,
}

func runProfiles(_ *cobra.Command, _ []string) error {
	_, profiles, _, err := loadApp()
	if err != nil {
		return err
	}

	fmt.Println(styleHeader.Render(fmt.Sprintf("%-12s %-28s %-6s %-14s %s",
		"NAME", "HOST", "PORT", "TLS", "CREDENTIALS")))

	for _, name := range profiles.Names() {
		p, _ := profiles.Get(name)

		creds := styleDim.Render("not configured")
		if p.Configured() {
			creds = styleSuccess.Render("configured")
		}

		fmt.Printf("%-12s %-28s %-6d %-14s %s\n", p.Name, p.Host, p.Port, p.TLS, creds)
	}
	return nil
}
