package payment

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ramani888/abwa-sub000/internal/shared"
)

func TestModeMarshalEmitsOnlyOwnReference(t *testing.T) {
	data, err := json.Marshal(Mode{Kind: ModeUPI, Reference: "upi-123"})
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "upi", raw["kind"])
	require.Equal(t, "upi-123", raw["upi_transaction_id"])
	require.NotContains(t, raw, "card_number")
	require.NotContains(t, raw, "cheque_number")
	require.NotContains(t, raw, "bank_reference_number")
	require.NotContains(t, raw, "gateway_transaction_id")
}

func TestModeMarshalCashHasNoReference(t *testing.T) {
	data, err := json.Marshal(Mode{Kind: ModeCash})
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"cash"}`, string(data))
}

func TestModeUnmarshalSelectsFieldByKind(t *testing.T) {
	var m Mode
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"cheque","cheque_number":"CHQ-9"}`), &m))
	require.Equal(t, ModeCheque, m.Kind)
	require.Equal(t, "CHQ-9", m.Reference)
}

func TestModeUnmarshalRejectsForeignReference(t *testing.T) {
	var m Mode
	err := json.Unmarshal([]byte(`{"kind":"card","upi_transaction_id":"upi-1"}`), &m)
	require.Error(t, err)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestModeValidate(t *testing.T) {
	require.NoError(t, Mode{Kind: ModeCash}.Validate())
	require.NoError(t, Mode{Kind: ModeCard, Reference: "4111"}.Validate())
	require.NoError(t, Mode{Kind: ModeNEFT, Reference: "NEFT-1"}.Validate())
	require.NoError(t, Mode{Kind: ModeOnline, Reference: "gw-1"}.Validate())

	require.ErrorIs(t, Mode{Kind: ModeCard}.Validate(), shared.ErrValidation)
	require.ErrorIs(t, Mode{Kind: ModeCash, Reference: "x"}.Validate(), shared.ErrValidation)
	require.ErrorIs(t, Mode{Kind: "wire"}.Validate(), shared.ErrValidation)
}

func TestModeRoundTripAllKinds(t *testing.T) {
	for kind := range referenceFields {
		in := Mode{Kind: kind, Reference: "ref-1"}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		var out Mode
		require.NoError(t, json.Unmarshal(data, &out))
		require.Equal(t, in, out, string(kind))
	}
}

func TestValidationErrorsAreStructured(t *testing.T) {
	err := Mode{Kind: ModeCheque}.Validate()
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "cheque_number", verr.Field)
}
