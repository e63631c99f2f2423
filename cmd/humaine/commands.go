package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a message through the personalization pipeline",
	Long: `Send a message through the personalization pipeline.

Examples:
  humaine chat --user alice "How does compound interest work?"
  humaine chat --user alice --domain finance "Should I refinance?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		session, _ := cmd.Flags().GetString("session")
		domain, _ := cmd.Flags().GetString("domain")
		message := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"user_id":    user,
			"input_text": message,
		}
		if session != "" {
			req["session_id"] = session
		}
		if domain != "" {
			req["domain"] = domain
		}

		resp, err := client.post(cmd.Context(), "/interact", req)
		if err != nil {
			return err
		}

		var result struct {
			Response        string `json:"response"`
			Status          string `json:"status"`
			Personalization struct {
				LanguageComplexity string `json:"language_complexity"`
				ResponseStyle      string `json:"response_style"`
				DetailLevel        string `json:"detail_level"`
			} `json:"personalization"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Response)
		if result.Status == "fallback" {
			printWarning("generation failed upstream, this is the fallback response")
		}
		printStep("complexity=%s style=%s detail=%s",
			result.Personalization.LanguageComplexity,
			result.Personalization.ResponseStyle,
			result.Personalization.DetailLevel)
		return nil
	},
}

// --- feedback ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback <positive|negative>",
	Short: "Record feedback on the last response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/feedback", map[string]any{
			"user_id":       user,
			"feedback_type": args[0],
		})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Feedback recorded")
		return nil
	},
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and manage user profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user>",
	Short: "Show a user's profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile/"+args[0])
		if err != nil {
			return err
		}

		var p any
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <user>",
	Short: "Delete a user's profile everywhere",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This deletes the profile, its history, and its insights. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/profile/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted profile for %s", args[0])
		return nil
	},
}

var profileStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show profile storage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profiles/stats")
		if err != nil {
			return err
		}

		var stats struct {
			Loaded int   `json:"loaded_profiles"`
			Stored int   `json:"stored_profiles"`
			Bytes  int64 `json:"storage_bytes"`
		}
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Loaded", "%d", stats.Loaded)
		printStatus("Stored", "%d", stats.Stored)
		printStatus("Storage", "%d bytes", stats.Bytes)
		return nil
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Flush all in-memory profiles to storage now",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/profiles/save", nil)
		if err != nil {
			return err
		}

		var result struct {
			Saved int `json:"saved"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Saved %d profiles", result.Saved)
		return nil
	},
}

// --- insights ---

var insightsCmd = &cobra.Command{
	Use:   "insights <user>",
	Short: "Show cross-session insights for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profiles/insights/"+args[0])
		if err != nil {
			return err
		}

		var result struct {
			Insights        []string `json:"insights"`
			Recommendations []string `json:"recommendations"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Insights) == 0 {
			fmt.Println("No insights yet.")
			return nil
		}
		for _, ins := range result.Insights {
			printStep("%s", ins)
		}
		for _, rec := range result.Recommendations {
			printStatus("Recommend", "%s", rec)
		}
		return nil
	},
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/interactions?limit=%d", limit)
		if user != "" {
			path += "&user_id=" + user
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var body struct {
			Interactions []struct {
				ID          string `json:"id"`
				CreatedAt   string `json:"created_at"`
				UserID      string `json:"user_id"`
				UserMessage string `json:"user_message"`
				Status      string `json:"status"`
			} `json:"interactions"`
		}
		if err := decodeJSON(resp, &body); err != nil {
			return err
		}

		if len(body.Interactions) == 0 {
			fmt.Println("No interactions found.")
			return nil
		}

		for _, ix := range body.Interactions {
			msg := ix.UserMessage
			if len(msg) > 80 {
				msg = msg[:80] + "..."
			}
			fmt.Printf("%s  %s  %s  %s\n",
				colorize(colorCyan, ix.ID[:8]),
				ix.CreatedAt,
				ix.UserID,
				msg,
			)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().String("user", "", "user identifier")
	chatCmd.Flags().String("session", "", "session identifier")
	chatCmd.Flags().String("domain", "", "domain context (finance, healthcare, education, technology)")
	chatCmd.MarkFlagRequired("user")

	feedbackCmd.Flags().String("user", "", "user identifier")
	feedbackCmd.MarkFlagRequired("user")

	profileDeleteCmd.Flags().Bool("confirm", false, "confirm profile deletion")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileStatsCmd)
	profileCmd.AddCommand(profileSaveCmd)

	interactionsCmd.Flags().String("user", "", "filter by user")
	interactionsCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
}
