package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSlipRequired       = errors.New("payment slip file is required")
	ErrNoGroupedPlayers   = errors.New("no grouped players to build a draw from")

	// Ошибки конфликтов
	ErrAdminUsernameConflict     = errors.New("username is already in use")
	ErrTournamentCategoryTaken   = errors.New("tournament already exists for this category")
	ErrWinnerNotInMatch          = errors.New("winner must be one of the match players")
	ErrUnsupportedSlipContent    = errors.New("unsupported payment slip content type")
	ErrGroupAssignmentsRequired  = errors.New("at least one group assignment is required")
	ErrGroupAssignmentPlayerPaid = errors.New("only paid players can be assigned to a group")

	// Ошибки, специфичные для сущностей
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrAdminNotFound      = errors.New("admin not found")
)
