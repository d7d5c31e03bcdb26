package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aditya6114/aac-board/internal/config"
	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/persist"
)

// openSlot opens the configured state slot.
func openSlot() (*persist.SQLiteSlot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slot, err := persist.OpenSQLite(cfg.StateDBPath, persist.SlotName)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return slot, nil
}

func closeSlot(slot *persist.SQLiteSlot) {
	if err := slot.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close state database: %v\n", err)
	}
}

// NewStateCmd creates the state command group
func NewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage the persisted board state",
	}
	cmd.AddCommand(newStateExportCmd())
	cmd.AddCommand(newStateImportCmd())
	cmd.AddCommand(newStateResetCmd())
	return cmd
}

func newStateExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the persisted state snapshot to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := openSlot()
			if err != nil {
				return err
			}
			defer closeSlot(slot)

			data, ok, err := slot.Load(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load state: %w", err)
			}
			if !ok {
				return fmt.Errorf("no state has been persisted yet")
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}

func newStateImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the persisted state with a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot file: %w", err)
			}
			// Round-trip through the codec so a malformed snapshot is
			// rejected before it replaces anything.
			state, err := persist.Decode(data)
			if err != nil {
				return fmt.Errorf("snapshot is not valid: %w", err)
			}
			encoded, err := persist.Encode(state)
			if err != nil {
				return fmt.Errorf("failed to re-encode snapshot: %w", err)
			}

			slot, err := openSlot()
			if err != nil {
				return err
			}
			defer closeSlot(slot)

			if err := slot.Save(context.Background(), encoded); err != nil {
				return fmt.Errorf("failed to save state: %w", err)
			}
			fmt.Println("State imported")
			return nil
		},
	}
}

func newStateResetCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the persisted state to the initial board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to reset without --yes")
			}
			encoded, err := persist.Encode(models.NewAppState())
			if err != nil {
				return fmt.Errorf("failed to encode initial state: %w", err)
			}

			slot, err := openSlot()
			if err != nil {
				return err
			}
			defer closeSlot(slot)

			if err := slot.Save(context.Background(), encoded); err != nil {
				return fmt.Errorf("failed to save state: %w", err)
			}
			fmt.Println("State reset to the initial board")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the reset")
	return cmd
}
