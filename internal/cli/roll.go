package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swanstudios/progression/internal/daemon"
	"github.com/swanstudios/progression/internal/domain"
)

func init() {
	rollCmd.Flags().BoolVar(&rollBoost, "boost", false, "Spend a boost to double the roll")
	rootCmd.AddCommand(rollCmd)
}

var rollBoost bool

var rollCmd = &cobra.Command{
	Use:   "roll USER",
	Short: "Roll the board dice for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoll,
}

func runRoll(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Facade.RollDice(context.Background(), args[0], rollBoost)
	if errors.Is(err, domain.ErrCooldown) {
		board, berr := d.Facade.GetBoardState(context.Background(), args[0])
		if berr == nil {
			return fmt.Errorf("on cooldown until %s", board.NextRollEligibleAt.Format("15:04:05"))
		}
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("Rolled %d, now on space %d\n", res.FinalRoll, res.NewPosition)
	if res.RewardEarned {
		fmt.Printf("Milestone reward: +%d points\n", res.PointsEarned)
	}
	fmt.Printf("Next roll at %s\n", res.NextRollEligibleAt.Format("2006-01-02 15:04:05"))
	return nil
}
