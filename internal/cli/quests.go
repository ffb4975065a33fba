package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swanstudios/progression/internal/daemon"
)

func init() {
	questsCmd.AddCommand(questsListCmd, questsCompleteCmd)
	rootCmd.AddCommand(questsCmd)
}

var questsCmd = &cobra.Command{
	Use:   "quests",
	Short: "List and complete kindness quests",
}

var questsListCmd = &cobra.Command{
	Use:   "list USER",
	Short: "List kindness quests and their completion state",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestsList,
}

var questsCompleteCmd = &cobra.Command{
	Use:   "complete USER QUEST",
	Short: "Complete a kindness quest for a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestsComplete,
}

func runQuestsList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	quests, err := d.Facade.ListKindnessQuests(context.Background(), args[0])
	if err != nil {
		return err
	}

	for _, q := range quests {
		mark := " "
		if q.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %-20s %-40s +%d pts\n", mark, q.ID, q.Name, q.Points)
	}
	return nil
}

func runQuestsComplete(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Facade.CompleteKindnessQuest(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	if res.AlreadyCompleted {
		fmt.Println("Already completed, no points granted")
		return nil
	}
	fmt.Printf("Completed: +%d points, +%d kindness\n", res.PointsEarned, res.KindnessPointsEarned)
	return nil
}
