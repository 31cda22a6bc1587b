package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chatdomain "github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/domain"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chatVoice string

var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE...]",
	Short: "Ask Sarathi a question",
	Long: `Send one message to the assistant and print the reply. With --voice the
recorded file is sent instead and the spoken reply is played to the end.`,
	Example: `  sarathi chat "How much did I earn this week?"
  sarathi chat --voice question.wav`,
	RunE: runChat,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the saved conversation",
	Args:  cobra.NoArgs,
	RunE:  runChatHistory,
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.Chat.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Conversation cleared.")
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatVoice, "voice", "", "send a recorded audio file (WAV) instead of text")
	chatCmd.AddCommand(chatHistoryCmd, chatClearCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && chatVoice == "" {
		return errors.New("nothing to send: pass a message or --voice FILE")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.Chat.LoadHistory(ctx); err != nil {
		a.Logger.Warn("chat: transcript not saved", zap.Error(err))
	}

	if chatVoice != "" {
		data, err := os.ReadFile(chatVoice)
		if err != nil {
			return err
		}
		err = a.Chat.SendVoice(ctx, domain.Attachment{
			FileName:    filepath.Base(chatVoice),
			ContentType: "audio/wav",
			Data:        data,
		})
		if err := lastReply(cmd.OutOrStdout(), a.Chat.Snapshot().Messages, err); err != nil {
			return err
		}
		// the CLI exits when the command returns, so let the reply finish
		if w, ok := a.Player.(interface{ Wait(context.Context) error }); ok {
			return w.Wait(ctx)
		}
		return nil
	}

	err = a.Chat.SendText(ctx, text)
	return lastReply(cmd.OutOrStdout(), a.Chat.Snapshot().Messages, err)
}

// lastReply prints the newest agent message. A failed exchange still
// prints the apology the transcript shows, then returns err.
func lastReply(w io.Writer, msgs []chatdomain.Message, err error) error {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == chatdomain.SenderAgent {
			fmt.Fprint(w, renderMarkdown(msgs[i].Content))
			break
		}
	}
	return err
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

func runChatHistory(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.Chat.LoadHistory(cmd.Context()); err != nil {
		a.Logger.Warn("chat: transcript not saved", zap.Error(err))
	}

	w := cmd.OutOrStdout()
	for _, m := range a.Chat.Snapshot().Messages {
		who := "Sarathi"
		if m.Type == chatdomain.SenderUser {
			who = "You"
		}
		heading(w, who+" "+mutedStyle.Render(m.Timestamp.Local().Format("02 Jan 15:04")))
		if m.Type == chatdomain.SenderAgent {
			fmt.Fprint(w, renderMarkdown(m.Content))
		} else {
			fmt.Fprintln(w, m.Content)
		}
	}
	return nil
}
