package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixbrock/arigato/internal/app"
	"github.com/felixbrock/arigato/internal/domain"
)

var (
	optimizeTarget string
	optimizeStyle  string
	optimizeJSON   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [prompt...]",
	Short: "Optimize a single prompt and print the result",
	Long:  "Optimize a single prompt and print the result. The prompt is read from stdin when no arguments are given.",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeTarget, "target", "t", string(domain.TargetGemini), "Target AI: Gemini, ChatGPT, Claude or Other")
	optimizeCmd.Flags().StringVarP(&optimizeStyle, "style", "s", string(domain.StyleBasic), "Prompt style: BASIC or DETAIL")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opt, err := newOptimizer(cfg, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	result, err := opt.Optimize(cmd.Context(), input)
	if err != nil {
		return err
	}

	if optimizeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func readInput(stdin io.Reader, args []string) (domain.UserInput, error) {
	target, err := domain.ParseTargetAI(optimizeTarget)
	if err != nil {
		return domain.UserInput{}, err
	}

	style, err := domain.ParseStyle(strings.ToUpper(optimizeStyle))
	if err != nil {
		return domain.UserInput{}, err
	}

	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		content, err := app.Read(io.NopCloser(stdin))
		if err != nil {
			return domain.UserInput{}, fmt.Errorf("read stdin: %w", err)
		}
		prompt = strings.TrimRight(string(content), "\n")
	}

	input := domain.UserInput{Prompt: prompt, TargetAI: target, Style: style}
	if !input.Submittable() {
		return domain.UserInput{}, errors.New("a prompt is required")
	}
	return input, nil
}

func printResult(w io.Writer, r *domain.OptimizationResult) {
	fmt.Fprintf(w, "Your Optimized Prompt\n\n%s\n\n", r.OptimizedPrompt)
	fmt.Fprintf(w, "%s\n", r.ExplanationTitle)
	for _, item := range r.Improvements {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	if r.TechniquesApplied != "" {
		fmt.Fprintf(w, "\nTechniques Applied\n  %s\n", r.TechniquesApplied)
	}
	if r.ProTip != "" {
		fmt.Fprintf(w, "\nPro Tip\n  %s\n", r.ProTip)
	}
}
