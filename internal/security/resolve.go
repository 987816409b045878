package security

import (
	"os"

	"tabload/pkg/errors"
)

// PasswordSource names where a resolved password came from
type PasswordSource string

const (
	SourceKeyring     PasswordSource = "keyring"
	SourceEnvironment PasswordSource = "environment"
	SourceConfig      PasswordSource = "config"
)

// ResolvedPassword is the tagged outcome of one resolution attempt
type ResolvedPassword struct {
	Succeeded bool
	Password  string
	Source    PasswordSource
}

// ResolvePassword tries the credential store, the TABLOAD_PASSWORD
// environment variable, and finally the config file value, in that order.
// Each attempt yields a tagged result and the next attempt runs only when
// the previous one reports failure, rather than treating an error as the
// fallback signal.
func ResolvePassword(store *CredentialStore, account, configPassword string) (ResolvedPassword, error) {
	if attempt := fromStore(store, account); attempt.Succeeded {
		return attempt, nil
	}

	if attempt := fromEnvironment(); attempt.Succeeded {
		return attempt, nil
	}

	if configPassword != "" {
		return ResolvedPassword{Succeeded: true, Password: configPassword, Source: SourceConfig}, nil
	}

	return ResolvedPassword{}, errors.New(errors.ErrCodeCredentialNotFound,
		"No password found for the destination account").
		WithComponent("security").
		WithContext("account", account).
		WithSuggestions(
			"Run 'tabload config set-password' to store one in the system keyring",
			"Set the TABLOAD_PASSWORD environment variable",
		)
}

func fromStore(store *CredentialStore, account string) ResolvedPassword {
	if store == nil || account == "" {
		return ResolvedPassword{}
	}
	secret, err := store.Get(account)
	if err != nil || secret == "" {
		return ResolvedPassword{}
	}
	return ResolvedPassword{Succeeded: true, Password: secret, Source: SourceKeyring}
}

func fromEnvironment() ResolvedPassword {
	if secret := os.Getenv("TABLOAD_PASSWORD"); secret != "" {
		return ResolvedPassword{Succeeded: true, Password: secret, Source: SourceEnvironment}
	}
	return ResolvedPassword{}
}
