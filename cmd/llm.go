package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the requests sent to the tutor model",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.AttemptID, _ = cmd.Flags().GetString("attempt")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMRequests(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query LLM requests: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tATTEMPT\tMODEL\tIN\tOUT\tLATENCY\tOK")
		for _, e := range events {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				e.ID,
				e.Timestamp.Local().Format(time.DateTime),
				e.Purpose,
				orDash(shortID(e.AttemptID)),
				truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens,
				time.Duration(e.LatencyMs)*time.Millisecond,
				mark(e.Success),
			)
		}
		return tw.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print one request and the model's reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().GetLLMRequest(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get LLM request: %w", err)
		}
		if e == nil {
			return fmt.Errorf("LLM request %d not found", id)
		}
		printLLMRequest(cmd.OutOrStdout(), e)
		return nil
	},
}

func printLLMRequest(w io.Writer, e *store.LLMRequestEvent) {
	fields := [][2]string{
		{"Time", e.Timestamp.Local().Format(time.DateTime)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Attempt", orDash(e.AttemptID)},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", (time.Duration(e.LatencyMs) * time.Millisecond).String()},
		{"Result", mark(e.Success) + " " + e.ErrorMessage},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", strings.TrimSpace(f[1]))
	}
	for _, part := range [][2]string{{"Request", e.RequestBody}, {"Response", e.ResponseBody}} {
		fmt.Fprintf(w, "\n── %s %s\n", part[0], strings.Repeat("─", 56-len(part[0])))
		fmt.Fprintln(w, orDash(strings.TrimRight(part[1], "\n")))
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		usage, err := st.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query LLM usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "PURPOSE\tCALLS\tIN\tOUT\tAVG LATENCY\t")
		var total store.LLMUsage
		for _, u := range groupUsage(usage, func(u store.LLMUsage) string { return u.Purpose }) {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens,
				time.Duration(u.AvgLatencyMs)*time.Millisecond)
			total.Calls += u.Calls
			total.InputTokens += u.InputTokens
			total.OutputTokens += u.OutputTokens
		}
		fmt.Fprintf(tw, "total\t%d\t%d\t%d\t\t\n", total.Calls, total.InputTokens, total.OutputTokens)
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "MODEL\tCALLS\tCOST\t")
		var cost float64
		var unpriced []string
		for _, u := range groupUsage(usage, func(u store.LLMUsage) string { return u.Model }) {
			price := llm.LookupCost(u.Model)
			if price == nil {
				unpriced = append(unpriced, u.Model)
				fmt.Fprintf(tw, "%s\t%d\t?\t\n", truncate(u.Model, 32), u.Calls)
				continue
			}
			c := price.Cost(u.InputTokens, u.OutputTokens)
			cost += c
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", truncate(u.Model, 32), u.Calls, formatCost(c))
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (priced models)"
		}
		fmt.Fprintf(tw, "%s\t\t%s\t\n", label, formatCost(cost))
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// groupUsage merges usage rows sharing the same key, keeping first-seen
// order. Purpose and Model of the merged rows are both set to the key.
func groupUsage(rows []store.LLMUsage, key func(store.LLMUsage) string) []store.LLMUsage {
	var out []store.LLMUsage
	index := make(map[string]int)
	latency := make(map[string]int64)
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, store.LLMUsage{Purpose: k, Model: k})
		}
		out[i].Calls += r.Calls
		out[i].InputTokens += r.InputTokens
		out[i].OutputTokens += r.OutputTokens
		latency[k] += r.AvgLatencyMs * int64(r.Calls)
	}
	for i := range out {
		if out[i].Calls > 0 {
			out[i].AvgLatencyMs = latency[out[i].Purpose] / int64(out[i].Calls)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only requests with this purpose (e.g. explain)")
	llmListCmd.Flags().StringP("attempt", "a", "", "Only requests made for this attempt ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
