package lsp

import (
	"encoding/json"

	"reindent/internal/config"
	"reindent/internal/logging"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

// applySettings merges editor settings into the config store overrides.
// Invalid values are logged and ignored.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("ignoring settings", logging.FieldError, err)
		return
	}
	rs := settings.Reindent

	s.mu.Lock()
	defer s.mu.Unlock()
	if rs.IndentStyle != nil {
		style, err := config.ParseIndentStyle(*rs.IndentStyle)
		if err != nil {
			s.logger.Warn("ignoring indentStyle", logging.FieldError, err)
		} else {
			s.overrides.IndentStyle = &style
		}
	}
	if rs.Defines != nil {
		// пустой список тоже override: очищает defines манифеста
		s.overrides.Defines = append(make([]string, 0, len(rs.Defines)), rs.Defines...)
	}
	if rs.Trace != nil {
		s.traceLSP = *rs.Trace
	}
	s.store.SetOverrides(s.overrides)
}

func (s *Server) tracing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}
