package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
	"github.com/treeline-io/treeline/pkg/share"
)

// shareStoreOpts selects the backing store for saved maps.
type shareStoreOpts struct {
	dir      string
	redis    string
	redisTTL time.Duration
	mongo    string
}

func (c *CLI) shareCommand() *cobra.Command {
	var store shareStoreOpts

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share mind maps as tokens or saved entries",
	}

	cmd.PersistentFlags().StringVar(&store.dir, "dir", "", "directory for the file store (default ~/.config/treeline/maps)")
	cmd.PersistentFlags().StringVar(&store.redis, "redis", "", "redis address for the map store (e.g. localhost:6379)")
	cmd.PersistentFlags().DurationVar(&store.redisTTL, "redis-ttl", 0, "expiry for maps saved to redis (0 = keep forever)")
	cmd.PersistentFlags().StringVar(&store.mongo, "mongo", "", "mongodb uri for the map store (e.g. mongodb://localhost:27017)")

	cmd.AddCommand(c.shareEncodeCommand())
	cmd.AddCommand(c.shareDecodeCommand())
	cmd.AddCommand(c.shareSaveCommand(&store))
	cmd.AddCommand(c.shareLoadCommand(&store))
	cmd.AddCommand(c.shareListCommand(&store))
	cmd.AddCommand(c.shareDeleteCommand(&store))

	return cmd
}

// openStore picks the store backend from the flags. At most one remote
// backend may be selected; the file store is the default.
func openStore(ctx context.Context, opts *shareStoreOpts) (share.Store, error) {
	if opts.redis != "" && opts.mongo != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "choose one of --redis or --mongo, not both")
	}
	switch {
	case opts.redis != "":
		return share.NewRedisStore(ctx, share.RedisConfig{Addr: opts.redis, TTL: opts.redisTTL})
	case opts.mongo != "":
		return share.NewMongoStore(ctx, share.MongoConfig{URI: opts.mongo})
	default:
		return share.NewFileStore(opts.dir)
	}
}

func (c *CLI) shareEncodeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode an outline as a portable share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			doc, err := mapper.BuildText(text, mapper.Options{
				Layout:     cfg.Layout,
				AutoGroup:  cfg.AutoGroup,
				Classifier: cfg.Classifier(),
			})
			if err != nil {
				return err
			}
			token, err := share.EncodeToken(doc)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a treeline.toml config file")
	return cmd
}

func (c *CLI) shareDecodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode [token]",
		Short: "Decode a share token back into an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := share.DecodeToken(args[0])
			if err != nil {
				return err
			}
			outline := mapper.Reconstruct(doc)
			if output == "" || output == "-" {
				fmt.Print(outline)
				return nil
			}
			if err := os.WriteFile(output, []byte(outline), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Decoded shared map")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) shareSaveCommand(store *shareStoreOpts) *cobra.Command {
	var name string
	var configPath string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save a mind map to the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			doc, err := mapper.BuildText(text, mapper.Options{
				Layout:     cfg.Layout,
				AutoGroup:  cfg.AutoGroup,
				Classifier: cfg.Classifier(),
			})
			if err != nil {
				return err
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			st, err := openStore(ctx, store)
			if err != nil {
				return err
			}
			defer st.Close()

			m := share.NewMap(name, doc)
			if err := st.Set(ctx, m); err != nil {
				return err
			}
			printSuccess("Saved mind map")
			printKeyValue("id", m.ID)
			printKeyValue("name", m.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name for the saved map (default input file stem)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a treeline.toml config file")
	return cmd
}

func (c *CLI) shareLoadCommand(store *shareStoreOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load [id]",
		Short: "Load a saved mind map back into an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, store)
			if err != nil {
				return err
			}
			defer st.Close()

			m, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return errors.New(errors.ErrCodeNotFound, "no saved map with id %s", args[0])
			}
			doc, err := m.Document()
			if err != nil {
				return err
			}

			outline := mapper.Reconstruct(doc)
			if output == "" || output == "-" {
				fmt.Print(outline)
				return nil
			}
			if err := os.WriteFile(output, []byte(outline), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Loaded %s", m.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) shareListCommand(store *shareStoreOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved mind maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, store)
			if err != nil {
				return err
			}
			defer st.Close()

			maps, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(maps) == 0 {
				printInfo("No saved maps")
				return nil
			}
			for _, m := range maps {
				fmt.Printf("%s  %s  %s  %d nodes\n",
					m.ID,
					m.UpdatedAt.Local().Format("2006-01-02 15:04"),
					m.Name,
					len(m.Payload.Nodes))
			}
			return nil
		},
	}
}

func (c *CLI) shareDeleteCommand(store *shareStoreOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, store)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

