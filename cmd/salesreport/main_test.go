package main

import (
	"io"
	"log"
	"os"
	"testing"
)

func TestConfigureLogging(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	configureLogging(false)
	if log.Writer() != io.Discard {
		t.Errorf("quiet mode: log writer = %T, want io.Discard", log.Writer())
	}

	configureLogging(true)
	if log.Writer() != os.Stderr {
		t.Errorf("verbose mode: log writer = %T, want os.Stderr", log.Writer())
	}
}
