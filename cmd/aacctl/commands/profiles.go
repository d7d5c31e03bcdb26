package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aditya6114/aac-board/internal/persist"
)

// NewProfilesCmd creates the profiles command
func NewProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles in the persisted state",
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
				fmt.Println("No state has been persisted yet")
				return nil
			}
			state, err := persist.Decode(data)
			if err != nil {
				return fmt.Errorf("persisted state is not valid: %w", err)
			}

			if len(state.Profiles) == 0 {
				fmt.Println("No profiles")
				return nil
			}
			currentID := ""
			if state.CurrentProfile != nil {
				currentID = state.CurrentProfile.ID
			}
			for _, p := range state.Profiles {
				marker := " "
				if p.ID == currentID {
					marker = "*"
				}
				fmt.Printf("%s %s  %s  (%d tiles)\n", marker, p.ID, p.Name, len(p.Tiles))
			}
			return nil
		},
	}
}
