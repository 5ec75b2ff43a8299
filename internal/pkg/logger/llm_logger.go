package logger

import (
	"log"
	"os"
	"path/filepath"
)

// NewLLMLogger returns the file-backed logger the RAG pipeline stages write
// to, keeping prompt/degrade traces out of the system log. Falls back to
// stdout when the log directory cannot be created.
func NewLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Failed to open llm log file: %v", err)
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
