package service

import (
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
)

var validLanguages = map[string]bool{
	model.LangEnglish:    true,
	model.LangRussian:    true,
	model.LangKarakalpak: true,
	model.LangUzbek:      true,
}

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	PhoneNumber string `json:"phoneNumber"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Age > 0 {
		user.Age = update.Age
	}
	if update.PhoneNumber != "" {
		user.PhoneNumber = update.PhoneNumber
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeLanguage switches the interface language. Unknown codes are
// rejected rather than silently mapped to English.
func (s *UserService) ChangeLanguage(userID uint, language string) error {
	if !validLanguages[language] {
		return util.ErrInvalidLanguage
	}
	return s.UserRepo.UpdateLanguage(userID, language)
}
