package bridge

import (
	"errors"

	"github.com/spf13/viper"
)

type Credentials struct {
	Login  string
	Pass   string
	Server string
	Token  string
}

// CredentialsFromConfig reads the matrix.* login keys. A token wins over a
// password when both are set.
func CredentialsFromConfig(v *viper.Viper) (Credentials, error) {
	cred := Credentials{
		Login:  v.GetString("matrix.login"),
		Pass:   v.GetString("matrix.password"),
		Server: v.GetString("matrix.server"),
		Token:  v.GetString("matrix.token"),
	}

	if cred.Server == "" {
		return cred, errors.New("matrix.server is not set")
	}

	if cred.Login == "" {
		return cred, errors.New("matrix.login is not set")
	}

	if cred.Token == "" && cred.Pass == "" {
		return cred, errors.New("need matrix.password or matrix.token")
	}

	return cred, nil
}
