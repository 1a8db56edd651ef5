// README: Voice webhook handlers; call start, first utterance, follow-up turns.
package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"voxguide/internal/service"
	"voxguide/internal/types"
	"voxguide/internal/voice"
)

// VoiceHandler serves the telephony provider's webhooks. Responses are
// JSON instructions; rendering them into call-control markup is the
// provider integration's job.
type VoiceHandler struct {
	controller *service.Controller
	audio      *voice.Generator

	mu     sync.Mutex
	voices map[types.ID]voice.Voice // voice picked per call
}

func NewVoiceHandler(controller *service.Controller, audio *voice.Generator) *VoiceHandler {
	return &VoiceHandler{
		controller: controller,
		audio:      audio,
		voices:     make(map[types.ID]voice.Voice),
	}
}

// instruction is the reply envelope for every voice webhook.
type instruction struct {
	Say      string   `json:"say"`
	AudioURL []string `json:"audio_urls,omitempty"`
	Gather   bool     `json:"gather"`
	EndCall  bool     `json:"end_call"`
}

// Start handles call start: fresh session, voice selection, greeting.
func (h *VoiceHandler) Start(c *gin.Context) {
	callID := types.ID(c.PostForm("CallSid"))
	if callID == "" {
		writeError(c, http.StatusBadRequest, "missing CallSid")
		return
	}

	v := h.audio.PickVoice(c.Request.Context())
	h.mu.Lock()
	h.voices[callID] = v
	h.mu.Unlock()

	reply, err := h.controller.BeginCall(c.Request.Context(), callID, v.Name)
	if err != nil {
		writeTurnError(c, err)
		return
	}
	h.respond(c, callID, reply)
}

// Process handles the first utterance of a call.
func (h *VoiceHandler) Process(c *gin.Context) {
	h.turn(c)
}

// FollowUp handles every subsequent utterance.
func (h *VoiceHandler) FollowUp(c *gin.Context) {
	h.turn(c)
}

func (h *VoiceHandler) turn(c *gin.Context) {
	callID := types.ID(c.PostForm("CallSid"))
	if callID == "" {
		writeError(c, http.StatusBadRequest, "missing CallSid")
		return
	}
	speech := c.PostForm("SpeechResult")
	if speech == "" {
		h.respond(c, callID, service.Reply{Text: "Sorry, I didn't catch that. Could you say it again?"})
		return
	}
	caller := c.PostForm("From")

	reply, err := h.controller.HandleTurn(c.Request.Context(), callID, caller, speech)
	if err != nil {
		writeTurnError(c, err)
		return
	}
	// Respond before tearing down so the goodbye keeps the call's voice.
	h.respond(c, callID, reply)
	if reply.EndCall {
		h.endCall(c, callID)
	}
}

func (h *VoiceHandler) endCall(c *gin.Context, callID types.ID) {
	h.controller.EndCall(c.Request.Context(), callID)
	h.mu.Lock()
	delete(h.voices, callID)
	h.mu.Unlock()
}

// respond synthesizes the reply text and writes the instruction envelope.
func (h *VoiceHandler) respond(c *gin.Context, callID types.ID, reply service.Reply) {
	h.mu.Lock()
	v, ok := h.voices[callID]
	h.mu.Unlock()
	if !ok {
		v = h.audio.PickVoice(c.Request.Context())
		if !reply.EndCall {
			h.mu.Lock()
			h.voices[callID] = v
			h.mu.Unlock()
		}
	}

	var urls []string
	for _, path := range h.audio.Generate(c.Request.Context(), reply.Text, v.ID) {
		urls = append(urls, "/audio/"+audioFileName(path))
	}

	writeJSON(c, http.StatusOK, instruction{
		Say:      reply.Text,
		AudioURL: urls,
		Gather:   !reply.EndCall,
		EndCall:  reply.EndCall,
	})
}
