package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type PlayerService struct {
	DB     *gorm.DB
	Assets *assets.Manager
	Logger zerolog.Logger

	defaultPhotoURL string
	players         *repository.Repository[models.Player]
}

func NewPlayerService(db *gorm.DB, am *assets.Manager, defaultPhotoURL string, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		DB:              db,
		Assets:          am,
		Logger:          logger.With().Str("component", "players").Logger(),
		defaultPhotoURL: defaultPhotoURL,
		players:         repository.New[models.Player](db),
	}
}

type playerBasicInfo struct {
	FirstName       string `json:"first_name"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name"`
	Mobile          string `json:"mobile"`
	AlternateMobile string `json:"alternate_mobile"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"date_of_birth"`
	Pincode         string `json:"pincode"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
}

type playerGameInfo struct {
	Height          number `json:"height"`
	Weight          number `json:"weight"`
	PlayingPosition string `json:"playing_position"`
	JerseyNo        number `json:"jersey_no"`
	About           string `json:"about"`
}

type playerRegistration struct {
	PlayerInfo struct {
		BasicInfo playerBasicInfo `json:"basicInfo"`
		GameInfo  playerGameInfo  `json:"gameInfo"`
	} `json:"PlayerInfo"`
}

// playerUpdate carries only the fields the client sent.
type playerUpdate struct {
	FirstName       *string `json:"first_name"`
	MiddleName      *string `json:"middle_name"`
	LastName        *string `json:"last_name"`
	Mobile          *string `json:"mobile"`
	AlternateMobile *string `json:"alternate_mobile"`
	Gender          *string `json:"gender"`
	DateOfBirth     *string `json:"date_of_birth"`
	Height          *number `json:"height"`
	Weight          *number `json:"weight"`
	Pincode         *string `json:"pincode"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Country         *string `json:"country"`
	PlayingPosition *string `json:"playing_position"`
	JerseyNo        *number `json:"jersey_no"`
	About           *string `json:"about"`
}

// RegisterPlayer creates a player and its empty statistics row.
func (s *PlayerService) RegisterPlayer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req playerRegistration
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	basic, game := req.PlayerInfo.BasicInfo, req.PlayerInfo.GameInfo

	// --- Validation ---
	basic.Mobile = strings.TrimSpace(basic.Mobile)
	if strings.TrimSpace(basic.FirstName) == "" || basic.Mobile == "" {
		return respondError(c, s.Logger, badInput("first_name and mobile are required"))
	}
	dob, err := parseDate(basic.DateOfBirth)
	if err != nil {
		return respondError(c, s.Logger, badInput(err.Error()))
	}
	jerseyNo, err := game.JerseyNo.Count("jersey_no")
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	// --- Duplicate check happens before any upload ---
	taken, err := s.players.Exists(ctx, "mobile", basic.Mobile)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	if taken {
		return respondError(c, s.Logger, duplicate("Please change mobile number"))
	}

	player := models.Player{
		UserID:          currentUserID(c),
		FirstName:       properName(basic.FirstName),
		MiddleName:      properName(basic.MiddleName),
		LastName:        properName(basic.LastName),
		Mobile:          basic.Mobile,
		AlternateMobile: strings.TrimSpace(basic.AlternateMobile),
		Gender:          basic.Gender,
		DateOfBirth:     dob,
		Height:          game.Height.Float(),
		Weight:          game.Weight.Float(),
		Pincode:         basic.Pincode,
		City:            basic.City,
		State:           basic.State,
		Country:         basic.Country,
		PlayingPosition: game.PlayingPosition,
		JerseyNo:        jerseyNo,
		About:           game.About,
	}

	_, err = s.Assets.Create(ctx, formFile(c, "photo"), assets.FolderPlayers, s.defaultPhotoURL, func(a assets.Asset) error {
		player.PhotoURL, player.PhotoName = a.URL, a.Name
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&player).Error; err != nil {
				return err
			}
			stats := models.PlayerStatistics{PlayerID: player.ID}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
			player.Statistics = &stats
			return nil
		})
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	s.Logger.Info().Str("player_id", player.ID).Msg("player registered")
	return utils.Success(c, fiber.StatusCreated, player)
}

// GetAllPlayers lists players ten per page, optionally filtered by name and
// sorted by a statistics column.
func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	page, offset := utils.PageParams(c)

	q := repository.ListQuery{
		Search:        strings.TrimSpace(c.Query("name")),
		SearchColumns: []string{"players.first_name", "players.last_name"},
		Preload:       []string{"Statistics", "Teams.Team"},
		OrderBy:       []string{"players.created_at DESC"},
		Offset:        offset,
		Limit:         utils.PageSize,
	}

	if sort := c.Query("sort"); sort != "" {
		col, ok := models.StatisticColumns[sort]
		if !ok {
			return respondError(c, s.Logger, badInput("sort must be one of points, rebounds, assists, steals, blocks"))
		}
		q.Select = "players.*"
		q.Joins = []string{"LEFT JOIN player_statistics ON player_statistics.player_id = players.id"}
		q.OrderBy = []string{"player_statistics." + col + " DESC", "players.created_at DESC"}
	}

	players, total, err := s.players.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, utils.NewPage(players, page, total))
}

// GetPlayerByID returns a player with statistics, teams and recent box scores.
func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	player, err := s.players.FindByID(ctx, c.Params("id"), "Statistics", "Teams.Team")
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	var lines []models.ScoreLine
	if err := s.DB.WithContext(ctx).
		Where("player_id = ?", player.ID).
		Order("created_at DESC").
		Limit(10).
		Find(&lines).Error; err != nil {
		return respondError(c, s.Logger, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"player":       player,
		"recent_games": lines,
	})
}

// GetPlayerByMobile looks a player up by exact mobile number. Numbers shorter
// than four characters never match.
func (s *PlayerService) GetPlayerByMobile(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if len(number) < 4 {
		return respondError(c, s.Logger, &NotFoundError{Entity: "Player"})
	}

	player, err := s.players.FindByField(c.UserContext(), "mobile", number)
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}
	return utils.Success(c, fiber.StatusOK, player)
}

// UpdatePlayer applies the sent fields and swaps the photo when a new one
// is supplied.
func (s *PlayerService) UpdatePlayer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	player, err := s.players.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	var req playerUpdate
	if err := parseData(c, &req, true); err != nil {
		return respondError(c, s.Logger, err)
	}
	fields, err := req.fields()
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	if mobile, ok := fields["mobile"].(string); ok && mobile != player.Mobile {
		taken, err := s.players.Exists(ctx, "mobile", mobile)
		if err != nil {
			return respondError(c, s.Logger, err)
		}
		if taken {
			return respondError(c, s.Logger, duplicate("Please change mobile number"))
		}
	}

	current := assets.Ref(player.PhotoURL, player.PhotoName)
	_, err = s.Assets.Swap(ctx, current, incomingFile(c, "photo", player.PhotoURL), assets.FolderPlayers, func(a assets.Asset) error {
		if a != current {
			fields["photo_url"] = a.URL
			fields["photo_name"] = a.Name
		}
		return s.players.Update(ctx, player.ID, fields)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	updated, err := s.players.FindByID(ctx, player.ID, "Statistics")
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, updated)
}

func (u playerUpdate) fields() (map[string]any, error) {
	fields := map[string]any{}
	setName := func(col string, v *string) {
		if v != nil {
			fields[col] = properName(*v)
		}
	}
	setStr := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}

	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		return nil, badInput("first_name cannot be empty")
	}
	if u.Mobile != nil && strings.TrimSpace(*u.Mobile) == "" {
		return nil, badInput("mobile cannot be empty")
	}

	setName("first_name", u.FirstName)
	setName("middle_name", u.MiddleName)
	setName("last_name", u.LastName)
	setStr("mobile", u.Mobile)
	setStr("alternate_mobile", u.AlternateMobile)
	setStr("gender", u.Gender)
	setStr("pincode", u.Pincode)
	setStr("city", u.City)
	setStr("state", u.State)
	setStr("country", u.Country)
	setStr("playing_position", u.PlayingPosition)
	setStr("about", u.About)

	if u.Height != nil {
		fields["height"] = u.Height.Float()
	}
	if u.Weight != nil {
		fields["weight"] = u.Weight.Float()
	}
	if u.JerseyNo != nil {
		jerseyNo, err := u.JerseyNo.Count("jersey_no")
		if err != nil {
			return nil, err
		}
		fields["jersey_no"] = jerseyNo
	}
	if u.DateOfBirth != nil {
		dob, err := parseDate(*u.DateOfBirth)
		if err != nil {
			return nil, badInput(err.Error())
		}
		fields["date_of_birth"] = dob
	}
	return fields, nil
}

// DeletePlayer removes the player and then its photo. A failed photo cleanup
// does not fail the request.
func (s *PlayerService) DeletePlayer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	player, err := s.players.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.TeamPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.PlayerStatistics{}).Error; err != nil {
			return err
		}
		return s.players.WithTx(tx).Delete(ctx, player.ID)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	s.Assets.Cleanup(ctx, assets.Ref(player.PhotoURL, player.PhotoName))
	return utils.Success(c, fiber.StatusOK, player)
}
