package service

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/repository"
)

// SeedService генерирует демонстрационные данные для разработки.
type SeedService struct {
	userRepo    *repository.UserRepository
	serviceRepo *repository.ServiceRepository
}

// NewSeedService создаёт сервис генерации данных.
func NewSeedService(userRepo *repository.UserRepository, serviceRepo *repository.ServiceRepository) *SeedService {
	return &SeedService{
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
	}
}

// SeedData генерирует демонстрационных участников и их услуги.
func (s *SeedService) SeedData(ctx context.Context, numUsers, servicesPerUser int) error {
	users, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seed service: не удалось создать пользователей: %w", err)
	}

	if err := s.generateServices(ctx, users, servicesPerUser); err != nil {
		return fmt.Errorf("seed service: не удалось создать услуги: %w", err)
	}

	return nil
}

// generateUsers создаёт демонстрационных участников. Часть получает
// дополнительные баллы сверх стартовых, чтобы каталог выглядел обжитым.
func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, error) {
	firstNames := []string{
		"Александр", "Дмитрий", "Максим", "Сергей", "Андрей", "Алексей", "Артём", "Илья",
		"Анна", "Мария", "Елена", "Ольга", "Татьяна", "Наталья", "Ирина", "Светлана",
	}
	lastNames := []string{
		"Иванов", "Петров", "Смирнов", "Козлов", "Соколов", "Попов", "Лебедев", "Новиков",
		"Морозов", "Волков", "Васильев", "Зайцев", "Павлов", "Семёнов", "Фёдоров", "Белов",
	}
	locations := []string{
		"Москва", "Санкт-Петербург", "Новосибирск", "Екатеринбург", "Казань",
		"Нижний Новгород", "Самара", "Ростов-на-Дону", "Краснодар", "Тюмень",
	}
	bios := []string{
		"Люблю помогать соседям и осваивать новые навыки.",
		"Делюсь тем, что умею, в обмен на то, чему хочу научиться.",
		"Свободное время трачу на волонтёрство и репетиторство.",
		"Мастер на все руки, возьмусь почти за любую бытовую задачу.",
		"Преподаю по вечерам, днём занимаюсь фрилансом.",
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		firstName := firstNames[rand.Intn(len(firstNames))]
		lastName := lastNames[rand.Intn(len(lastNames))]

		user := &models.User{
			Email:        fmt.Sprintf("demo%d@skillswap.local", i+1),
			PasswordHash: string(passHash),
			FirstName:    firstName,
			LastName:     lastName,
			Location:     locations[rand.Intn(len(locations))],
			Bio:          bios[rand.Intn(len(bios))],
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		// Каждому третьему добавляем баллы сверх стартовых.
		if i%3 == 0 {
			bonus := 25 + rand.Intn(100)
			if _, err := s.userRepo.AdjustBalance(ctx, user.ID, bonus); err != nil {
				return nil, err
			}
		}

		users = append(users, user)
	}

	return users, nil
}

// generateServices создаёт услуги демонстрационных участников.
func (s *SeedService) generateServices(ctx context.Context, users []*models.User, perUser int) error {
	templates := []struct {
		title       string
		description string
		category    string
		points      int
		tags        []string
	}{
		{"Уроки английского языка", "Разговорный английский для начинающих и продолжающих, занятия по часу.", models.CategoryEducation, 15, []string{"языки", "репетиторство"}},
		{"Помощь с переездом", "Помогу собрать, перенести и расставить вещи. Есть опыт и инструменты.", models.CategoryTransport, 20, []string{"переезд", "физический труд"}},
		{"Консультация по питанию", "Составлю план питания под ваши цели и привычки.", models.CategoryHealthcare, 25, []string{"здоровье", "питание"}},
		{"Настройка домашнего роутера", "Настрою Wi-Fi, родительский контроль и гостевую сеть.", models.CategoryTechnology, 10, []string{"интернет", "техника"}},
		{"Выгул собаки", "Выгуляю вашу собаку утром или вечером, район центральный.", models.CategoryTransport, 5, []string{"животные", "прогулки"}},
		{"Урок игры на гитаре", "Первые аккорды за одно занятие, гитару могу принести свою.", models.CategoryEducation, 12, []string{"музыка", "хобби"}},
		{"Помощь с покупками", "Закуплю продукты по списку и привезу домой.", models.CategoryTransport, 8, []string{"покупки", "доставка"}},
		{"Математика школьникам", "Подготовка к контрольным и экзаменам, 5-11 класс.", models.CategoryEducation, 18, []string{"математика", "репетиторство"}},
	}
	availabilities := []string{
		models.AvailabilityAvailable,
		models.AvailabilityBusy,
		models.AvailabilityOffline,
	}

	for _, user := range users {
		for i := 0; i < perUser; i++ {
			tpl := templates[rand.Intn(len(templates))]
			svc := &models.Service{
				ProviderID:   user.ID,
				Title:        tpl.title,
				Description:  tpl.description,
				Category:     tpl.category,
				Points:       tpl.points,
				Location:     user.Location,
				Availability: availabilities[rand.Intn(len(availabilities))],
				Tags:         tpl.tags,
				IsAvailable:  true,
			}
			if err := s.serviceRepo.Create(ctx, svc); err != nil {
				return err
			}
		}
	}

	return nil
}
