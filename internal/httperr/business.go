package httperr

import "errors"

// BusinessError é um erro de regra de negócio identificado por código
// curto (ex.: "time_conflict"). Os use cases devolvem o código; quem
// traduz para HTTP e mensagem é o handler.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
