package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestRegisterMasksPassword(t *testing.T) {
	registerReq := Register{Username: "user", Email: "email", Password: "password"}

	actual, _ := json.Marshal(registerReq)

	decoded := map[string]string{}
	assert.NoError(t, json.Unmarshal(actual, &decoded))
	assert.EqualValues(t, "***", decoded["password"])
	assert.EqualValues(t, "password", registerReq.Password)
}
