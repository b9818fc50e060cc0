package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tales-server/internal/mocks"
	"tales-server/internal/models"
	"tales-server/internal/repository"
	"tales-server/internal/service"
)

type libraryFixture struct {
	library  *service.LibraryService
	ai       *mocks.MockAIClient
	imageGen *mocks.MockImageGenerator
}

func newLibraryFixture(t *testing.T) *libraryFixture {
	t.Helper()
	ctx := context.Background()
	backend := repository.NewMemoryBackend()
	log := zap.NewNop()

	ai := mocks.NewMockAIClient(t)
	imageGen := mocks.NewMockImageGenerator(t)

	library := service.NewLibraryService(
		repository.NewStoryRepository(ctx, backend, log),
		repository.NewContentRepository(ctx, backend, log),
		service.NewGenerationService(ai, log),
		imageGen,
		log,
	)
	return &libraryFixture{library: library, ai: ai, imageGen: imageGen}
}

func (f *libraryFixture) createStory(t *testing.T) models.Story {
	t.Helper()
	story, err := f.library.CreateStory(context.Background(), service.CreateStoryInput{
		Title:    "قصة الفضاء",
		Content:  "كان يا ما كان...",
		HeroName: "أحمد",
		Topic:    "الفضاء",
		AgeGroup: "6-8",
	})
	require.NoError(t, err)
	return story
}

func (f *libraryFixture) createImage(t *testing.T, storyID uuid.UUID) models.Image {
	t.Helper()
	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return("A hero under the stars, children's book illustration", service.UsageInfo{}, nil).Once()
	f.imageGen.On("GenerateImage", mock.Anything, mock.Anything).
		Return("https://images.unsplash.com/photo-1551966775-a4ddc8df052b?q=80", nil).Once()

	img, err := f.library.CreateImage(context.Background(), storyID, "البطل تحت النجوم")
	require.NoError(t, err)
	return img
}

func TestLibraryService_CreateStoryWithProvidedText(t *testing.T) {
	f := newLibraryFixture(t)
	story := f.createStory(t)

	assert.NotEqual(t, uuid.Nil, story.ID)
	assert.Equal(t, "كان يا ما كان...", story.Content)

	got, err := f.library.GetStory(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Equal(t, story.ID, got.ID)
}

func TestLibraryService_CreateStoryGeneratesWhenNoContent(t *testing.T) {
	f := newLibraryFixture(t)
	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return("قصة مولدة عن الفضاء", service.UsageInfo{}, nil).Once()

	story, err := f.library.CreateStory(context.Background(), service.CreateStoryInput{
		Topic:    "الفضاء",
		HeroName: "أحمد",
		AgeGroup: "6-8",
	})
	require.NoError(t, err)
	assert.Equal(t, "قصة مولدة عن الفضاء", story.Content)
	assert.Contains(t, story.Title, "الفضاء")
	f.ai.AssertExpectations(t)
}

func TestLibraryService_DeleteStoryCascades(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)
	img := f.createImage(t, story.ID)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"questions":[{"id":1,"text":"سؤال","options":["أ","ب"],"answer":"أ"}]}`, service.UsageInfo{}, nil).Once()
	act, err := f.library.CreateActivity(ctx, story.ID, models.ActivityMultipleChoice)
	require.NoError(t, err)

	page, err := f.library.CreateColoringPage(ctx, story.ID, img.ID, "")
	require.NoError(t, err)

	require.NoError(t, f.library.DeleteStory(ctx, story.ID))

	_, err = f.library.GetStory(ctx, story.ID)
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
	err = f.library.DeleteImage(ctx, img.ID)
	assert.ErrorIs(t, err, service.ErrImageNotFound)
	err = f.library.DeleteActivity(ctx, act.ID)
	assert.ErrorIs(t, err, service.ErrActivityNotFound)
	err = f.library.DeleteColoringPage(ctx, page.ID)
	assert.ErrorIs(t, err, service.ErrColoringPageNotFound)
}

func TestLibraryService_CreateContentRequiresStory(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()

	_, err := f.library.CreateActivity(ctx, uuid.New(), models.ActivityMatching)
	assert.ErrorIs(t, err, service.ErrStoryNotFound)

	_, err = f.library.CreateGame(ctx, uuid.New(), models.GameQuiz)
	assert.ErrorIs(t, err, service.ErrStoryNotFound)

	_, err = f.library.CreateImage(ctx, uuid.New(), "مشهد")
	assert.ErrorIs(t, err, service.ErrStoryNotFound)

	_, err = f.library.CreateColoringPage(ctx, uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
}

func TestLibraryService_ColoringPageRequiresImageOfSameStory(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	storyA := f.createStory(t)
	storyB := f.createStory(t)
	img := f.createImage(t, storyA.ID)

	// Иллюстрация существует, но принадлежит другой сказке.
	_, err := f.library.CreateColoringPage(ctx, storyB.ID, img.ID, "")
	assert.ErrorIs(t, err, service.ErrImageNotFound)

	page, err := f.library.CreateColoringPage(ctx, storyA.ID, img.ID, "")
	require.NoError(t, err)
	assert.Equal(t, img.URL, page.OriginalURL)
	assert.Contains(t, page.OutlineURL, "grayscale=true")
}

func TestLibraryService_GenerateColoringPageFromCharacter(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return("Simple line drawing of a smiling young astronaut", service.UsageInfo{}, nil).Once()
	f.imageGen.On("GenerateImage", mock.Anything, mock.Anything).
		Return("https://images.unsplash.com/photo-1629654297299-c8506221ca97?q=80", nil).Once()

	page, err := f.library.GenerateColoringPage(ctx, story.ID, "رائد الفضاء الصغير", "")
	require.NoError(t, err)
	assert.Equal(t, "صفحة تلوين", page.Title)
	assert.Equal(t, uuid.Nil, page.ImageID, "раскраска не привязана к иллюстрации")
	assert.Contains(t, page.OutlineURL, "grayscale=true")

	_, err = f.library.GenerateColoringPage(ctx, uuid.New(), "بطل", "")
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
}

func TestLibraryService_DeleteImageCascadesColoringPages(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)
	img := f.createImage(t, story.ID)

	_, err := f.library.CreateColoringPage(ctx, story.ID, img.ID, "")
	require.NoError(t, err)

	require.NoError(t, f.library.DeleteImage(ctx, img.ID))

	content, err := f.library.GetStoryContent(ctx, story.ID)
	require.NoError(t, err)
	assert.Empty(t, content.Images)
	assert.Empty(t, content.ColoringPages)
}

func TestLibraryService_RegenerateActivityKeepsIdentity(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"title":"الأول","questions":[{"id":1,"text":"س","options":["أ","ب"],"answer":"أ"}]}`, service.UsageInfo{}, nil).Once()
	act, err := f.library.CreateActivity(ctx, story.ID, models.ActivityMultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, "الأول", act.Title)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"title":"الثاني","questions":[{"id":1,"text":"س٢","options":["ج","د"],"answer":"د"}]}`, service.UsageInfo{}, nil).Once()
	regenerated, err := f.library.RegenerateActivity(ctx, act.ID)
	require.NoError(t, err)

	assert.Equal(t, act.ID, regenerated.ID)
	assert.Equal(t, act.StoryID, regenerated.StoryID)
	assert.Equal(t, act.Type, regenerated.Type)
	assert.Equal(t, "الثاني", regenerated.Title)

	var payload models.MultipleChoiceContent
	require.NoError(t, json.Unmarshal(regenerated.Content, &payload))
	assert.Equal(t, "د", payload.Questions[0].Answer)
}

func TestLibraryService_SubmitActivity(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"questions":[{"id":1,"text":"س","options":["أ","ب"],"answer":"أ"},{"id":2,"text":"س٢","options":["ج","د"],"answer":"ج"}]}`, service.UsageInfo{}, nil).Once()
	act, err := f.library.CreateActivity(ctx, story.ID, models.ActivityMultipleChoice)
	require.NoError(t, err)

	score, err := f.library.SubmitActivity(ctx, act.ID, service.Answers{1: "أ", 2: "د"})
	require.NoError(t, err)
	assert.Equal(t, 50, score)

	_, err = f.library.SubmitActivity(ctx, act.ID, service.Answers{})
	assert.ErrorIs(t, err, service.ErrNoAnswers)

	_, err = f.library.SubmitActivity(ctx, uuid.New(), service.Answers{1: "أ"})
	assert.ErrorIs(t, err, service.ErrActivityNotFound)
}

func TestLibraryService_CreateGameFallsBackOnBadAIOutput(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)

	f.ai.On("GenerateText", mock.Anything, mock.Anything).
		Return("عذرًا، لا أستطيع", service.UsageInfo{}, nil).Once()

	game, err := f.library.CreateGame(ctx, story.ID, models.GameOrdering)
	require.NoError(t, err)
	assert.Equal(t, "ترتيب الأحداث", game.Title)

	var payload models.OrderingContent
	require.NoError(t, json.Unmarshal(game.Content, &payload))
	assert.Len(t, payload.Events, 5)
}

func TestLibraryService_UpdateStory(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	story := f.createStory(t)

	newTitle := "عنوان جديد"
	updated, err := f.library.UpdateStory(ctx, story.ID, models.StoryUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "عنوان جديد", updated.Title)
	assert.Equal(t, story.Content, updated.Content)

	_, err = f.library.UpdateStory(ctx, uuid.New(), models.StoryUpdate{Title: &newTitle})
	assert.ErrorIs(t, err, service.ErrStoryNotFound)
}
