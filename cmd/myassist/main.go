package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"myassist/internal/assistant"
	"myassist/internal/console"
	"myassist/internal/intent"
	"myassist/internal/notify"
	"myassist/internal/speech"
	"myassist/internal/system"
	"myassist/internal/tts"
	"myassist/internal/webapi"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	mode := cli.StringP("mode", "m", "", "Input mode: voice or text (prompted when empty)")
	city := cli.StringP("city", "c", "London", "Default city for weather")
	sttBackend := cli.String("stt", "local", "Speech-to-text backend: local or cloud")
	whisperModel := cli.String("whisper-model", "models/ggml-base.en.bin", "Path to whisper.cpp model (local stt)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for outbound requests")
	chimePath := cli.String("chime", "chime.mp3", "Wake chime sound file")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	startInText, err := chooseMode(*mode)
	if err != nil {
		log.Error("Failed to read input mode", "err", err)
		os.Exit(1)
	}

	web, err := webapi.New(webapi.Options{
		WeatherKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		NewsKey:    os.Getenv("NEWS_API_KEY"),
		SocksProxy: *proxyAddr,
	})
	if err != nil {
		log.Error("Failed to init web clients", "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded web clients")

	rec := speech.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	recog, cleanup, err := newRecognizer(*sttBackend, *whisperModel, *proxyAddr)
	if err != nil {
		log.Error("Failed to init speech recognition", "backend", *sttBackend, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	log.Debug("Loaded recognizer", "backend", *sttBackend)

	reader, err := console.NewReader()
	if err != nil {
		log.Error("Failed to init console input", "err", err)
		os.Exit(1)
	}
	defer reader.Close()

	log.Info("Boot up - successful")

	session := assistant.New(assistant.Config{
		StartInTextMode: startInText,
		DefaultCity:     *city,
		MusicService:    musicService(),
		WakePhrases:     intent.DefaultWakePhrases,
	}, assistant.Deps{
		Voice:   speech.NewListener(rec, recog, intent.DefaultWakePhrases),
		Text:    reader,
		Out:     tts.NewEngine(),
		Chime:   notify.NewPlayer(*chimePath),
		Weather: web,
		News:    web,
		Lookup:  web,
		Launch:  system.Desktop{},
		Volume:  system.Desktop{},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil {
		log.Error("Session failed", "err", err)
		os.Exit(1)
	}
}

// chooseMode resolves the startup input mode from the flag, prompting the
// user when it was not given.
func chooseMode(flagValue string) (startInText bool, err error) {
	switch flagValue {
	case "voice":
		return false, nil
	case "text":
		return true, nil
	case "":
	default:
		fmt.Println("Invalid choice. Please enter 'voice' or 'text'")
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Choose input mode (voice/text): ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return false, err
			}
			return false, fmt.Errorf("stdin closed")
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "voice":
			return false, nil
		case "text":
			return true, nil
		}
		fmt.Println("Invalid choice. Please enter 'voice' or 'text'")
	}
}

func newRecognizer(backend, modelPath, proxyAddr string) (speech.Recognizer, func(), error) {
	switch backend {
	case "cloud":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if proxyAddr != "" {
			httpClient, err := webapi.SocksHTTPClient(proxyAddr, 120*time.Second)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, option.WithHTTPClient(httpClient))
		}
		client := openai.NewClient(opts...)
		return speech.NewCloud(client), func() {}, nil
	case "local":
		w, err := speech.NewWhisper(modelPath)
		if err != nil {
			return nil, nil, err
		}
		return w, func() { w.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown stt backend %q", backend)
}

func musicService() string {
	if s := os.Getenv("MUSIC_SERVICE"); s != "" {
		return strings.ToLower(s)
	}
	return "youtube"
}
