package main

import (
	"context"
	"fmt"

	interview "github.com/koscakluka/ema-interview/core"
	"github.com/koscakluka/ema-interview/core/audio/miniaudio"
	"github.com/koscakluka/ema-interview/core/audio/portaudio"
	"github.com/koscakluka/ema-interview/core/live/gemini"
	"github.com/koscakluka/ema-interview/core/screening"
	"github.com/koscakluka/ema-interview/core/speechtotext/deepgram"
	"github.com/koscakluka/ema-interview/internal/config"
	"google.golang.org/genai"
)

type app struct {
	cfg   *config.Root
	genai *genai.Client
	live  *gemini.Client
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client, err := gemini.NewGenAIClient(ctx,
		gemini.WithAPIKey(cfg.Gemini.APIKey),
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		genai: client,
		live:  gemini.NewClient(client, cfg.Gemini.LiveModel),
	}, nil
}

func (a *app) evaluator() *screening.Evaluator {
	return screening.NewEvaluator(a.genai.Models, screening.WithModel(a.cfg.Gemini.EvaluationModel))
}

// openDevices initializes the configured audio backend. The returned
// function releases it after every session using it has closed.
func (a *app) openDevices() (interview.Devices, func(), error) {
	switch a.cfg.Audio.Backend {
	case config.BackendPortaudio:
		client, err := portaudio.NewClient(a.cfg.Audio.FramesPerBuffer)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		client, err := miniaudio.NewClient(a.cfg.Audio.FramesPerBuffer)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
}

func (a *app) sessionOptions(candidate interview.Candidate, devices interview.Devices) ([]interview.SessionOption, error) {
	opts := []interview.SessionOption{
		interview.WithRemoteChannel(a.live),
		interview.WithDevices(devices),
		interview.WithCandidate(candidate),
		interview.WithOrganization(a.cfg.Organization),
		interview.WithVoice(a.cfg.Voice),
	}

	if a.cfg.Deepgram.Enabled {
		transcriber, err := deepgram.NewTranscriptionClient(
			deepgram.WithAPIKey(a.cfg.Deepgram.APIKey),
			deepgram.WithModel(a.cfg.Deepgram.Model),
			deepgram.WithBaseURL(a.cfg.Deepgram.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to configure deepgram: %w", err)
		}
		opts = append(opts, interview.WithCallerTranscriber(transcriber))
	}
	return opts, nil
}

func (a *app) role(title, requirements string) screening.Role {
	role := screening.Role{Title: a.cfg.Role.Title, Requirements: a.cfg.Role.Requirements}
	if title != "" {
		role.Title = title
	}
	if requirements != "" {
		role.Requirements = requirements
	}
	return role
}
