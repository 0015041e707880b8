// Command widget is a terminal rendition of the site's chat widget. It answers
// each line (or a recorded clip) with the local intent rules and speaks the reply.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/config"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/intent"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/speech"
)

func init() {
	pflag.StringP("page", "p", "home", "Page the widget is embedded on")
	pflag.String("audio", "", "Transcribe this recorded clip instead of reading stdin")
	pflag.StringP("out", "o", "widget-audio", "Directory for synthesized replies")
	pflag.String("voice", "", "Voice id override")
	pflag.Bool("mute", false, "Print replies without speaking them")
	pflag.String("log-level", "warn", "Log level: debug, info, warn, error")
}

func main() {
	pflag.Parse()

	v := viper.New()
	v.SetEnvPrefix("WIDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Str("service", "widget").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	registry := agents.NewRegistry(agents.Defaults())
	if cfg.AgentProfilesPath != "" {
		if registry, err = agents.LoadRegistry(cfg.AgentProfilesPath); err != nil {
			logger.Fatal().Err(err).Msg("load agent profiles")
		}
	}
	pageKey := models.PageKey(v.GetString("page"))
	profile, ok := registry.Lookup(pageKey)
	if !ok {
		logger.Fatal().Str("page", string(pageKey)).Msg("unknown page")
	}
	voiceID := v.GetString("voice")
	if voiceID == "" {
		voiceID = profile.VoiceID
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var synth speech.Synthesizer
	var transcriber speech.Transcriber
	if cfg.TTSURL != "" {
		synth = speech.HTTPSynthesizer{BaseURL: cfg.TTSURL, APIKey: cfg.TTSAPIKey, Model: cfg.TTSModel}
		transcriber = speech.HTTPTranscriber{BaseURL: cfg.TTSURL, APIKey: cfg.TTSAPIKey}
	}

	var speaker *speech.Speaker
	if !v.GetBool("mute") {
		speaker = speech.NewSpeaker(speech.SpeakerOptions{
			Synth:    synth,
			Local:    speech.LookupCommandSynth("espeak-ng", "espeak", "say"),
			Player:   &speech.DirPlayer{Dir: v.GetString("out")},
			VoiceID:  voiceID,
			MaxChars: cfg.TTSMaxChars,
			Timeout:  cfg.VendorTimeout,
			Logger:   logger,
		})
		defer speaker.Close()
		go func() {
			<-ctx.Done()
			speaker.Stop()
		}()
	}

	engine := intent.NewEngine(intent.DefaultKnowledge(cfg.SchedulingURL))
	fmt.Printf("%s: Hi, I'm %s. How can I help?\n", profile.DisplayName, profile.DisplayName)

	var src speech.TranscriptSource
	if path := v.GetString("audio"); path != "" {
		if transcriber == nil {
			logger.Fatal().Msg("--audio needs TTS_URL for transcription")
		}
		f, err := os.Open(path)
		if err != nil {
			logger.Fatal().Err(err).Msg("open audio")
		}
		defer f.Close()
		src = &speech.TranscriberSource{Transcriber: transcriber, Audio: f, Filename: path}
	} else {
		src = speech.NewStdinSource()
	}

	for {
		transcript, err := listenOnce(ctx, src)
		if err != nil {
			if errors.Is(err, speech.ErrNoSpeech) || errors.Is(err, context.Canceled) {
				return
			}
			logger.Error().Err(err).Msg("recognition failed")
			return
		}

		m := engine.Chat(transcript, profile.PageKey)
		logger.Debug().Str("intent", string(m.Intent)).Msg("matched")
		fmt.Printf("%s: %s\n", profile.DisplayName, m.ResponseText)

		if speaker != nil {
			if err := <-speaker.Speak(m.ResponseText); err != nil && !errors.Is(err, speech.ErrStopped) {
				logger.Warn().Err(err).Msg("speak")
			}
		}
	}
}

// listenOnce drains one recognition session and returns its final transcript.
func listenOnce(ctx context.Context, src speech.TranscriptSource) (string, error) {
	var (
		text string
		err  error
	)
	for ev := range speech.Listen(ctx, src) {
		switch ev.Kind {
		case speech.EventInterim:
			fmt.Printf("… %s\r", ev.Text)
		case speech.EventFinal:
			text = strings.TrimSpace(ev.Text)
		case speech.EventError:
			err = ev.Err
		}
	}
	return text, err
}
