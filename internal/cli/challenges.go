package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swanstudios/progression/internal/daemon"
)

func init() {
	challengesCmd.AddCommand(challengesListCmd, challengesJoinCmd)
	rootCmd.AddCommand(challengesCmd)
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List and join group challenges",
}

var challengesListCmd = &cobra.Command{
	Use:   "list USER",
	Short: "List challenges and the user's enrollment",
	Args:  cobra.ExactArgs(1),
	RunE:  runChallengesList,
}

var challengesJoinCmd = &cobra.Command{
	Use:   "join USER CHALLENGE",
	Short: "Join a challenge",
	Args:  cobra.ExactArgs(2),
	RunE:  runChallengesJoin,
}

func runChallengesList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	challenges, err := d.Facade.ListChallenges(context.Background(), args[0])
	if err != nil {
		return err
	}

	for _, c := range challenges {
		status := "available"
		switch {
		case c.Completed:
			status = "completed"
		case c.Joined:
			status = fmt.Sprintf("joined (%d%%)", c.Progress)
		case c.Ended:
			status = "ended"
		}
		fmt.Printf("%-15s %-25s ends %s  %s\n", c.ID, c.Name, c.EndDate.Format("2006-01-02"), status)
	}
	return nil
}

func runChallengesJoin(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	view, err := d.Facade.JoinChallenge(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Joined %s, ends %s\n", view.Name, view.EndDate.Format("2006-01-02"))
	return nil
}
