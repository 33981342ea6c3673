package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tenderly/internal/domain/models"
)

func newCompanyCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "View and update the company profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the company profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.client().GetCompany(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), profile)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCompany(profile))
			return nil
		},
	}

	var (
		name, registration, experience, email, phone, address string
		certifications                                        []string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; fields not given are kept",
		Example: `  tenderctl company set --name "Acme Construction" --email bids@acme.test
  tenderctl company set --cert "ISO 9001" --cert "Grade A License"
  tenderctl company set --cert ""   # clear certifications`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := &models.UpdateCompanyRequest{}
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("registration") {
				req.RegistrationNumber = &registration
			}
			if flags.Changed("experience") {
				req.Experience = &experience
			}
			if flags.Changed("email") {
				req.ContactEmail = &email
			}
			if flags.Changed("phone") {
				req.ContactPhone = &phone
			}
			if flags.Changed("address") {
				req.Address = &address
			}
			if flags.Changed("cert") {
				certs := make([]string, 0, len(certifications))
				for _, c := range certifications {
					if c = strings.TrimSpace(c); c != "" {
						certs = append(certs, c)
					}
				}
				req.Certifications = &certs
			}
			if req.IsEmpty() {
				return fmt.Errorf("nothing to update; pass at least one field flag")
			}

			profile, err := opts.client().UpdateCompany(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), profile)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Profile updated\n\n", successStyle.Render("✓"))
			fmt.Fprint(cmd.OutOrStdout(), renderCompany(profile))
			return nil
		},
	}
	setCmd.Flags().StringVar(&name, "name", "", "Company name")
	setCmd.Flags().StringVar(&registration, "registration", "", "Registration number")
	setCmd.Flags().StringVar(&experience, "experience", "", "Experience narrative")
	setCmd.Flags().StringVar(&email, "email", "", "Contact email")
	setCmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	setCmd.Flags().StringVar(&address, "address", "", "Address")
	setCmd.Flags().StringArrayVar(&certifications, "cert", nil, "Certification (repeat for several; replaces the list)")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func renderCompany(p *models.CompanyProfile) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name) + "\n")
	field := func(label, value string) {
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(fmt.Sprintf("%-14s", label)), value)
	}
	field("Registration", p.RegistrationNumber)
	field("Email", p.ContactEmail)
	field("Phone", p.ContactPhone)
	field("Address", p.Address)
	field("Certifications", strings.Join(p.Certifications, ", "))
	if p.Experience != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Experience)
	}
	return b.String()
}

func newAttestationsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attestations",
		Aliases: []string{"attestation"},
		Short:   "View submission attestations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List attestations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attestations, err := opts.client().ListAttestations(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), attestations)
			}
			if len(attestations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No attestations yet."))
				return nil
			}
			rows := make([][]string, 0, len(attestations))
			for _, a := range attestations {
				rows = append(rows, []string{a.TxID, a.TenderTitle, a.Agency, a.SubmittedAt.Format("2006-01-02 15:04"), a.Status})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"TRANSACTION", "TENDER", "AGENCY", "SUBMITTED", "STATUS"}, rows))
			return nil
		},
	})
	return cmd
}
