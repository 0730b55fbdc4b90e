package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/config"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/spf13/cobra"
)

var errNoLocalFeed = errors.New("no local promotions file configured, use --file")

func newCleanupCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove promotions older than the recency window from a local feed file",
		Long: `Remove promotions older than the recency window from a local feed file.

Entries without a timestamp are kept. The file defaults to the first local
location in VT_PROMOTIONS_PATHS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()

			path, err := feedFile(file, cfg.Sources.Promotions)
			if err != nil {
				return err
			}

			doc, err := readDocument(path, false)
			if err != nil {
				return err
			}

			removed := doc.Prune(time.Now(), cfg.Feed.Window)

			if err = writeDocument(path, doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d promoções removidas, %d mantidas\n", removed, len(doc.Promotions))

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "promotions file to rewrite")

	return cmd
}

func newPublishCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "publish <payload.json>",
		Short: "Add a promotion to the top of a local feed file",
		Long: `Add a promotion to the top of a local feed file.

The payload must carry produto, preco, loja and link. A promotion with the same
product and store at the same price is rejected as a duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoad()

			path, err := feedFile(file, cfg.Sources.Promotions)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}

			var payload feed.Payload
			if err = json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("failed to decode payload: %w", err)
			}

			doc, err := readDocument(path, true)
			if err != nil {
				return err
			}

			promo, err := doc.Publish(payload, time.Now())
			if err != nil {
				return err
			}

			if err = writeDocument(path, doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Promoção publicada: %s\n", promo.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "promotions file to update")

	return cmd
}

// feedFile picks the flag value or the first local configured location.
func feedFile(flag string, paths []string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	for _, path := range paths {
		if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
			return path, nil
		}
	}

	return "", errNoLocalFeed
}

func readDocument(path string, allowMissing bool) (*feed.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return &feed.Document{}, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc feed.Document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &doc, nil
}

func writeDocument(path string, doc *feed.Document) error {
	if doc.Promotions == nil {
		doc.Promotions = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err = os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
