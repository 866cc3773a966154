package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/analytics"
	"github.com/ivlev/babaru/internal/audio"
	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/eggs"
	"github.com/ivlev/babaru/internal/logging"
	"github.com/ivlev/babaru/internal/mascot"
)

const talkFPS = 30

func newChatCommand(ctx *commandContext) *cobra.Command {
	var message, page string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to Babaru",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := chat.New(cfg.Chat.APIURL, time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
			if err != nil {
				return err
			}
			store := ctx.prefs(cfg)
			defer store.Close()

			reg := eggs.NewRegistry(store, logging.Component(ctx.log(), "eggs"))
			reg.Load()
			talker := audio.NewTalker(talkFPS, logging.Component(ctx.log(), "audio"), audio.WithOutput(audio.NewDevice()))
			session := chat.NewSession(client, store,
				chat.WithSpeaker(talker),
				chat.WithLogger(logging.Component(ctx.log(), "chat")),
			)
			repl := &chatREPL{
				session: session,
				talker:  talker,
				face:    mascot.New(time.Now(), nil, reg),
				tracker: eggs.NewTracker(reg, store),
				stats:   ctx.analytics(cfg, store),
				page:    page,
				out:     cmd.OutOrStdout(),
			}

			if message != "" {
				repl.send(cmd.Context(), message)
				return nil
			}
			return repl.run(cmd.Context(), cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Send one message and exit")
	cmd.Flags().StringVar(&page, "page", "/", "Page path used as conversation context")
	return cmd
}

type chatREPL struct {
	session *chat.Session
	talker  *audio.Talker
	face    *mascot.Mascot
	tracker *eggs.Tracker
	stats   *analytics.Tracker
	page    string
	out     io.Writer
}

func (r *chatREPL) run(ctx context.Context, in io.Reader) error {
	r.face.SetChatOpen(true)
	defer r.face.SetChatOpen(false)
	fmt.Fprintln(r.out, "Hi! I'm Babaru! 👋 Type a message, /mute, /clear or /quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			r.session.Clear()
			fmt.Fprintln(r.out, "[*] Conversation cleared")
		case "/mute":
			muted := r.session.ToggleMute()
			r.stats.MuteToggle(ctx, muted)
			fmt.Fprintf(r.out, "[*] Muted: %s\n", yesNo(muted))
		default:
			r.send(ctx, line)
		}
	}
}

func (r *chatREPL) send(ctx context.Context, text string) {
	for _, ch := range text {
		for _, a := range r.tracker.KeyPress(string(ch)) {
			fmt.Fprintf(r.out, "[+] Achievement unlocked: %s\n", a.Name)
			r.stats.EasterEgg(ctx, a.ID, a.Name)
		}
	}

	r.face.SetLoading(true)
	reply, ok := r.session.Send(ctx, text, r.page)
	r.face.SetLoading(false)
	if !ok {
		return
	}
	r.stats.ChatMessage(ctx)
	fmt.Fprintf(r.out, "Babaru: %s\n", reply.Content)
	if err := r.session.Err(); err != nil {
		fmt.Fprintf(r.out, "[!] %v\n", err)
	}
	if r.talker.Playing() {
		fmt.Fprintf(r.out, "[*] 🔊 %.1fs of audio\n", r.talker.Length().Seconds())
		r.speak(ctx, time.Second/talkFPS)
	}
}

// speak blocks while the reply plays, feeding the talk level to the mascot
// and drawing its talk scale as a meter.
func (r *chatREPL) speak(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	defer r.face.Speak(-1)

	for r.talker.Playing() {
		r.face.Speak(r.talker.Amplitude())
		v := r.face.View(time.Now())
		fmt.Fprintf(r.out, "\r    %-11s %s", v.Mood, meter(v.TalkScale))
		select {
		case <-ctx.Done():
			r.talker.Stop()
			fmt.Fprintln(r.out)
			return
		case <-ticker.C:
		}
	}
	fmt.Fprintln(r.out)
}

const meterWidth = 10

// meter maps a talk scale in [1, 1+TalkBoost] to a bar.
func meter(scale float64) string {
	n := int(math.Round((scale - 1) / mascot.TalkBoost * meterWidth))
	n = max(0, min(n, meterWidth))
	return strings.Repeat("▮", n) + strings.Repeat("▯", meterWidth-n)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
