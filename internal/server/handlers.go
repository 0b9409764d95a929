package server

import (
	"strings"

	"lyricsmith/internal/api"
)

func (s *Server) handleHealth(c *Context) error {
	resp, err := s.service.Health(c.Ctx())
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleGenerateSong(c *Context, req *api.GenerateSongRequest) error {
	resp, err := s.service.GenerateSong(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleGenerateSongStatus(c *Context) error {
	return c.OK(s.service.GenerateSongStatus())
}

func (s *Server) handleRevise(c *Context, req *api.ReviseRequest) error {
	resp, err := s.service.Revise(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleListRevisions(c *Context) error {
	resp, err := s.service.ListRevisions(c.Ctx(), c.Request.URL.Query().Get("songId"))
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleSuggestMusic(c *Context, req *api.SuggestMusicRequest) error {
	resp, err := s.service.SuggestMusic(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleSuggestMusicDocs(c *Context) error {
	return c.OK(s.service.SuggestMusicDocs())
}

func (s *Server) handleChat(c *Context, req *api.ChatRequest) error {
	resp, err := s.service.Chat(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.OK(resp)
}

func (s *Server) handleGenerateVoice(c *Context, req *api.GenerateVoiceRequest) error {
	audio, err := s.service.GenerateVoice(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.Audio(audio)
}

func (s *Server) handlePreviewVoice(c *Context, req *api.PreviewVoiceRequest) error {
	audio, err := s.service.PreviewVoice(c.Ctx(), *req)
	if err != nil {
		return err
	}
	return c.Audio(audio)
}

func (s *Server) handleGetSong(c *Context) error {
	id := strings.TrimSpace(c.Request.PathValue("id"))
	if id == "" {
		return notFound(c)
	}
	song, err := s.service.GetSong(c.Ctx(), id)
	if err != nil {
		return err
	}
	return c.OK(song)
}
