package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"voiced/pkg/types"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func speakCmd() *cobra.Command {
	var agent, output string
	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize speech and save it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := postJSON("/v1/audio/speech", types.SpeechRequest{
				Input: args[0],
				Agent: agent,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			audio, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, audio, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes to %s (voice: %s)\n",
				len(audio), output, resp.Header.Get("X-Agent-Voice"))
			return nil
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "agent voice to use (empty = default)")
	cmd.Flags().StringVarP(&output, "output", "o", "speech.wav", "output file")
	return cmd
}

func transcribeCmd() *cobra.Command {
	var language, format string
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := uploadFile("/v1/audio/transcriptions", args[0], map[string]string{
				"language":        language,
				"response_format": format,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if format == "text" {
				fmt.Println(string(body))
				return nil
			}
			os.Stdout.Write(body)
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "language hint (empty = auto)")
	cmd.Flags().StringVar(&format, "format", "json", "response format: json, text, verbose_json")
	return cmd
}

func voicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "Manage agent voices",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.VoicesResponse
			if err := getJSON("/v1/voices", &resp); err != nil {
				return err
			}
			fmt.Printf("%d voices (default: %s)\n", resp.Total, resp.DefaultVoice)
			for _, v := range resp.Voices {
				ready := " "
				if v.HasPrompt {
					ready = "*"
				}
				fmt.Printf("  %s %-16s %s\n", ready, v.Name, v.Description)
			}
			return nil
		},
	}

	var instruct, createOut string
	create := &cobra.Command{
		Use:   "create <agent-name>",
		Short: "Design and register a new voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := postJSON("/v1/voices", types.CreateVoiceRequest{
				AgentName: args[0],
				Instruct:  instruct,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			audio, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			out := createOut
			if out == "" {
				out = args[0] + ".wav"
			}
			if err := os.WriteFile(out, audio, 0o644); err != nil {
				return err
			}
			fmt.Printf("created voice %s, sample saved to %s\n",
				resp.Header.Get("X-Agent-Voice"), out)
			return nil
		},
	}
	create.Flags().StringVar(&instruct, "instruct", "", "voice description for the design model")
	create.Flags().StringVarP(&createOut, "output", "o", "", "where to save the designed sample (default <agent>.wav)")
	create.MarkFlagRequired("instruct")

	reload := &cobra.Command{
		Use:   "reload",
		Short: "Reload the voice catalog and recompute prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := postJSON("/v1/voices/reload", struct{}{})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			var out types.ReloadResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}
			fmt.Printf("%s: %d voices loaded\n", out.Status, out.VoicesLoaded)
			return nil
		},
	}

	cmd.AddCommand(list, create, reload)
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the gateway health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var h types.HealthResponse
			if err := getJSON("/health", &h); err != nil {
				return err
			}
			b, err := json.MarshalIndent(h, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		},
	}
}
