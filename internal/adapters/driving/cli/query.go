package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

var (
	queryLibrary     string
	queryOrderBy     string
	queryFirstResult int
	queryMaxResults  int
	queryUnknown     bool
	queryAsUser      string
	queryRoles       []string
	queryJSON        bool
)

var queryCmd = &cobra.Command{
	Use:   "query [predicate]",
	Short: "Query a library locally",
	Long: `Runs a structured query against the local index, applying the same
authorization filtering, ordering, pagination and redaction as the
HTTP endpoint. Useful for verifying what a given principal would see.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryLibrary, "library", "l", "", "library to query (required)")
	queryCmd.Flags().StringVar(&queryOrderBy, "order-by", "lmdate", "sort key: title, library, author, specialty, pubdate, lmdate")
	queryCmd.Flags().IntVar(&queryFirstResult, "first", 1, "1-based index of the first result")
	queryCmd.Flags().IntVarP(&queryMaxResults, "max", "n", 10, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryUnknown, "unknown", false, "anonymize titles and abstracts")
	queryCmd.Flags().StringVar(&queryAsUser, "as-user", "", "evaluate policy as this username")
	queryCmd.Flags().StringSliceVar(&queryRoles, "role", nil, "role granted to the principal (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the envelope as JSON")
	_ = queryCmd.MarkFlagRequired("library")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	predicate := ""
	if len(args) > 0 {
		predicate = args[0]
	}

	q := &domain.Query{
		Predicate:   predicate,
		OrderBy:     domain.ParseOrderKey(queryOrderBy),
		FirstResult: queryFirstResult,
		MaxResults:  queryMaxResults,
		Unknown:     queryUnknown,
	}

	principal := domain.Anonymous()
	if queryAsUser != "" {
		principal = domain.Principal{Username: queryAsUser, Authenticated: true, Roles: queryRoles}
	}

	env := queryService.Run(cmd.Context(), queryLibrary, q, principal)

	if queryJSON {
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputEnvelope(cmd, env)
}

func outputEnvelope(cmd *cobra.Command, env *domain.Envelope) error {
	if env.Preamble.Tagline != "" {
		cmd.Println(env.Preamble.Tagline)
	}
	cmd.Println(env.Preamble.Message)
	if len(env.Results) == 0 {
		return nil
	}

	cmd.Println()
	for i, doc := range env.Results {
		title := doc.Title
		if title == "" {
			title = doc.Path
		}
		cmd.Printf("  [%d] %s\n", i+1, title)
		if doc.AuthorName != "" {
			cmd.Printf("      Author: %s\n", doc.AuthorName)
		}
		cmd.Printf("      %s\n", doc.DocRef)
		cmd.Println()
	}
	return nil
}
