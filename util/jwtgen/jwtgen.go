// bless up @haileyok
// https://github.com/haileyok/atproto-oauth-golang/blob/main/helpers/generic.go

package jwtgen

import (
	"crypto/ecdsa"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

func GetPrivateKey(key jwk.Key) (*ecdsa.PrivateKey, error) {
	var pkey ecdsa.PrivateKey
	if err := key.Raw(&pkey); err != nil {
		return nil, err
	}

	return &pkey, nil
}

func GetPublicKey(key jwk.Key) (*ecdsa.PublicKey, error) {
	var pkey ecdsa.PublicKey
	if err := key.Raw(&pkey); err != nil {
		return nil, err
	}

	return &pkey, nil
}
