package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/singnet/ens-avatar-go/pkg/avatar"
	"github.com/singnet/ens-avatar-go/pkg/config"
	"github.com/singnet/ens-avatar-go/pkg/model"
)

type rootFlags struct {
	configPath string
	rpc        string
	ipfs       string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "ens-avatar",
		Short:         "Resolve ENS avatar and header records to displayable URIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: ./ens-avatar.yaml)")
	root.PersistentFlags().StringVar(&flags.rpc, "rpc", "", "Ethereum RPC endpoint, overrides rpc_addr")
	root.PersistentFlags().StringVar(&flags.ipfs, "ipfs", "", "IPFS gateway base URL, overrides ipfs")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAvatarCmd(flags),
		newHeaderCmd(flags),
		newMetadataCmd(flags),
	)
	return root
}

func newAvatarCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <name>",
		Short: "Print the avatar URI of a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolver(cmd.Context(), flags, func(ctx context.Context, r *avatar.Resolver) error {
				uri, err := r.GetAvatar(ctx, args[0])
				if err != nil {
					return err
				}
				return printURI(cmd.OutOrStdout(), args[0], uri)
			})
		},
	}
}

func newHeaderCmd(flags *rootFlags) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "header <name>",
		Short: "Print the header URI of a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := headerKey(key)
			if err != nil {
				return err
			}
			return withResolver(cmd.Context(), flags, func(ctx context.Context, r *avatar.Resolver) error {
				uri, err := r.GetHeader(ctx, args[0], k)
				if err != nil {
					return err
				}
				return printURI(cmd.OutOrStdout(), args[0], uri)
			})
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", string(model.MediaKeyHeader), "text record to read: header or banner")
	return cmd
}

func newMetadataCmd(flags *rootFlags) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "metadata <name>",
		Short: "Print the metadata document behind a media record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := mediaKey(key)
			if err != nil {
				return err
			}
			return withResolver(cmd.Context(), flags, func(ctx context.Context, r *avatar.Resolver) error {
				md, err := r.GetMetadata(ctx, args[0], k)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), md)
			})
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", string(model.MediaKeyAvatar), "text record to read: avatar, header or banner")
	return cmd
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.rpc != "" {
		cfg.RPCAddr = flags.rpc
	}
	if flags.ipfs != "" {
		cfg.IPFS = flags.ipfs
	}
	if flags.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func withResolver(ctx context.Context, flags *rootFlags, fn func(context.Context, *avatar.Resolver) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	r, err := avatar.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(ctx, r)
}

func headerKey(key string) (model.MediaKey, error) {
	k := model.MediaKey(key)
	if k == "" {
		return model.MediaKeyHeader, nil
	}
	if !k.IsHeader() {
		return "", model.NewError(model.KindUnsupportedMediaKey, "Unsupported media key: "+key, key)
	}
	return k, nil
}

func mediaKey(key string) (model.MediaKey, error) {
	switch k := model.MediaKey(key); k {
	case "":
		return model.MediaKeyAvatar, nil
	case model.MediaKeyAvatar, model.MediaKeyHeader, model.MediaKeyBanner:
		return k, nil
	default:
		return "", model.NewError(model.KindUnsupportedMediaKey, "Unsupported media key: "+key, key)
	}
}

func printURI(w io.Writer, name, uri string) error {
	if uri == "" {
		return fmt.Errorf("%s has no displayable media", name)
	}
	_, err := fmt.Fprintln(w, uri)
	return err
}

func printJSON(w io.Writer, md model.Metadata) error {
	if md == nil {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(md)
}
