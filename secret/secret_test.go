package secret_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/secret"
)

const password = "pit-lane-password"

func TestSecret_Secret(t *testing.T) {
	t.Parallel()

	assert.Equal(t, password, secret.New(password).Secret())
	assert.Equal(t, "", secret.Secret{}.Secret())
	assert.True(t, secret.Secret{}.IsZero())
	assert.False(t, secret.New("").IsZero())
}

func TestSecret_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value string
	}{
		"empty":      {""},
		"whitespace": {" "},
		"password":   {password},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := secret.New(tc.value)
			buf := &bytes.Buffer{}

			fmt.Fprintln(buf, s)
			fmt.Fprintf(buf, "%+v %#v\n", s, s)
			fmt.Fprintf(buf, "%+v\n", struct{ Password secret.Secret }{s})

			logger := alog.NewTest(buf)
			logger.Info("connecting", slog.Any("password", s))

			assert.Contains(t, buf.String(), "******")

			if tc.value == password {
				assert.NotContains(t, buf.String(), password)
			}
		})
	}
}

func TestSecret_JSON(t *testing.T) {
	t.Parallel()

	type conf struct {
		User     string        `json:"user"`
		Password secret.Secret `json:"password"`
	}

	b, err := json.Marshal(conf{User: "paddock", Password: secret.New(password)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"user":"paddock","password":"******"}`, string(b))

	var c conf
	err = json.Unmarshal([]byte(`{"user":"paddock","password":"`+password+`"}`), &c)
	assert.NoError(t, err)
	assert.Equal(t, password, c.Password.Secret())
}

func TestSecret_Text(t *testing.T) {
	t.Parallel()

	data, err := secret.New(password).MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, []byte("******"), data)

	var s secret.Secret
	err = s.UnmarshalText([]byte(password))
	assert.NoError(t, err)
	assert.Equal(t, password, s.Secret())
}

func TestSecret_Scan(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		var s secret.Secret
		assert.NoError(t, s.Scan(password))
		assert.Equal(t, password, s.Secret())

		v, err := s.Value()
		assert.NoError(t, err)
		assert.Equal(t, password, v)
	})

	t.Run("bytes", func(t *testing.T) {
		t.Parallel()

		var s secret.Secret
		assert.NoError(t, s.Scan([]byte(password)))
		assert.Equal(t, password, s.Secret())
	})

	t.Run("null", func(t *testing.T) {
		t.Parallel()

		s := secret.New(password)
		assert.NoError(t, s.Scan(nil))
		assert.True(t, s.IsZero())

		v, err := s.Value()
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		var s secret.Secret
		assert.ErrorIs(t, s.Scan(42), secret.ErrScan)
	})
}
