package service

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInviteNotFound   = errors.New("invite not found or expired")
	ErrInviteMismatch   = errors.New("invite was issued for a different email")
	ErrEmailTaken       = errors.New("email already registered")
	ErrFollowSelf       = errors.New("cannot follow yourself")
	ErrHideSelf         = errors.New("cannot hide yourself")
	ErrStatusNotAllowed = errors.New("financial status does not belong to the investor class")
	ErrInvalidClass     = errors.New("invalid investor class")
	ErrPostNotFound     = errors.New("post not found")
	ErrPostNotVisible   = errors.New("post audience is above the viewer's accreditation")
	ErrAudienceTooHigh  = errors.New("audience is above the author's accreditation")
	ErrNotPostAuthor    = errors.New("only the author may delete a post")
	ErrFundNotFound     = errors.New("fund not found")
	ErrFundNotVisible   = errors.New("fund level is above the viewer's accreditation")
	ErrNotProfessional  = errors.New("only professionals may create funds")
	ErrInvalidLevel     = errors.New("invalid accreditation level")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrInvalidFilename  = errors.New("filename has no extension")
	ErrInvalidRole      = errors.New("invalid role")
)
