package domain

import "errors"

// ErrAuth помечает фатальный сбой авторизации у внешнего источника:
// без валидной сессии выборка невозможна, запуск прерывается целиком.
var ErrAuth = errors.New("авторизация источника данных не удалась")
