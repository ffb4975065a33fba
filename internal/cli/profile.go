package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swanstudios/progression/internal/daemon"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile USER",
	Short: "Show a user's progression profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	view, err := d.Facade.GetProfile(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("User:       %s\n", args[0])
	fmt.Printf("Level:      %d (%.0f%% to next)\n", view.Level, view.LevelProgressPct)
	fmt.Printf("Points:     %d\n", view.Points)
	fmt.Printf("Streak:     %d days\n", view.StreakDays)
	fmt.Printf("Kindness:   %d\n", view.KindnessScore)
	fmt.Printf("Boosts:     %d\n", view.Boosts)
	fmt.Printf("Board:      space %d (last roll %d)\n", view.Board.Position, view.Board.LastRoll)
	fmt.Printf("Workouts:   %d\n", view.WorkoutsCompleted)
	fmt.Printf("Challenges: %d completed\n", view.ChallengesCompleted)
	fmt.Printf("Quests:     %d completed\n", view.QuestsCompleted)
	return nil
}
