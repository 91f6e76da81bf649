package system

import (
	"fmt"

	"github.com/julianstephens/duet/internal/cli"
	"github.com/julianstephens/duet/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateStore(ctx)
	if err != nil {
		return err
	}
	fmt.Print(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s)", len(result.Conflicts))
	}
	fmt.Println()
	return nil
}

func validateStore(ctx *cli.Context) (validation.ValidationResult, error) {
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get entries: %w", err)
	}
	reactions, err := ctx.Store.GetAllReactions()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get reactions: %w", err)
	}
	profiles, err := ctx.Store.GetAllProfiles()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get profiles: %w", err)
	}

	v := validation.New()
	result := v.ValidateEntries(entries)
	result.Merge(v.ValidateReactions(reactions, entries))
	result.Merge(v.ValidateProfiles(profiles))
	return result, nil
}
