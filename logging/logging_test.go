package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("not-a-level")
	require.Error(t, err)
}
