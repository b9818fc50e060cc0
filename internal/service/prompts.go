package service

import (
	"fmt"

	"tales-server/internal/models"
)

// Шаблоны промптов. Контент на арабском — целевая аудитория приложения,
// описания изображений на английском (генераторы изображений работают с ним
// лучше).

const storySystemPrompt = "أنت مساعد متخصص في كتابة قصص تعليمية للأطفال باللغة العربية. تكتب قصصًا ممتعة وهادفة تناسب الفئة العمرية المحددة."

func storyUserPrompt(topic, heroName, ageGroup string) string {
	return fmt.Sprintf(`أنشئ قصة تعليمية للأطفال عن "%s" مع شخصية رئيسية اسمها "%s".
القصة يجب أن تكون مناسبة للفئة العمرية %s.
اجعل القصة ممتعة وتعليمية وتحتوي على دروس أخلاقية.
اكتب القصة باللغة العربية الفصحى البسيطة.
اجعل القصة بين 300-500 كلمة.`, topic, heroName, ageGroup)
}

const activitySystemPrompt = "أنت مساعد متخصص في تصميم أنشطة تعليمية تفاعلية للأطفال باللغة العربية. تقوم بإنشاء أنشطة منظمة بتنسيق JSON."

func activityUserPrompt(storyContent string, activityType models.ActivityType) string {
	switch activityType {
	case models.ActivityMatching:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء نشاط توصيل تعليمي للأطفال:

%s

أنشئ 5-8 أزواج من العناصر للتوصيل بينها. يجب أن تكون مرتبطة بالقصة ومناسبة للأطفال.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان النشاط",
  "instructions": "تعليمات للطفل حول كيفية إكمال النشاط",
  "pairs": [
    { "id": 1, "left": "عنصر في العمود الأيمن", "right": "ما يناسبه في العمود الأيسر" }
  ]
}`, storyContent)
	case models.ActivityTrueFalse:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء نشاط صح أو خطأ تعليمي للأطفال:

%s

أنشئ 5-8 عبارات يجب على الطفل تحديد ما إذا كانت صحيحة أم خاطئة. يجب أن تكون مرتبطة بالقصة ومناسبة للأطفال.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان النشاط",
  "instructions": "تعليمات للطفل حول كيفية إكمال النشاط",
  "questions": [
    { "id": 1, "text": "العبارة الأولى", "answer": true },
    { "id": 2, "text": "العبارة الثانية", "answer": false }
  ]
}`, storyContent)
	case models.ActivityFillBlanks:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء نشاط ملء الفراغات تعليمي للأطفال:

%s

أنشئ 5-8 جمل بها فراغات يجب على الطفل ملؤها. لكل فراغ، قدم 4 خيارات محتملة مع تحديد الإجابة الصحيحة.
يجب أن تكون الجمل مرتبطة بالقصة ومناسبة للأطفال.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان النشاط",
  "instructions": "تعليمات للطفل حول كيفية إكمال النشاط",
  "sentences": [
    {
      "id": 1,
      "text": "الجملة الأولى مع فراغ _____",
      "answer": "الإجابة الصحيحة",
      "options": ["الإجابة الصحيحة", "خيار خاطئ 1", "خيار خاطئ 2", "خيار خاطئ 3"]
    }
  ]
}`, storyContent)
	case models.ActivityMultipleChoice:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء نشاط اختيار من متعدد تعليمي للأطفال:

%s

أنشئ 5-8 أسئلة اختيار من متعدد مع 4 خيارات لكل سؤال. يجب أن تكون الأسئلة مرتبطة بالقصة ومناسبة للأطفال.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان النشاط",
  "instructions": "تعليمات للطفل حول كيفية إكمال النشاط",
  "questions": [
    {
      "id": 1,
      "text": "السؤال الأول؟",
      "options": ["الإجابة الصحيحة", "خيار خاطئ 1", "خيار خاطئ 2", "خيار خاطئ 3"],
      "answer": "الإجابة الصحيحة"
    }
  ]
}`, storyContent)
	default:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء نشاط تعليمي للأطفال من نوع "%s":

%s

قم بإنشاء نشاط تفاعلي مناسب للأطفال ومرتبط بالقصة.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل المناسب لنوع النشاط.`, activityType, storyContent)
	}
}

func gameUserPrompt(storyContent string, gameType models.GameType) string {
	switch gameType {
	case models.GameMemory:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء لعبة ذاكرة للأطفال:

%s

أنشئ 6 أزواج من البطاقات المتطابقة (12 بطاقة). كل زوج يحمل نفس الكلمة من القصة.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان اللعبة",
  "instructions": "تعليمات اللعبة",
  "cards": [
    { "id": 1, "content": "الكلمة الأولى" },
    { "id": 2, "content": "الكلمة الأولى" }
  ]
}`, storyContent)
	case models.GameOrdering:
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء لعبة ترتيب الأحداث للأطفال:

%s

أنشئ 5-7 أحداث من القصة مع ترتيبها الصحيح.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان اللعبة",
  "instructions": "تعليمات اللعبة",
  "events": [
    { "id": 1, "text": "الحدث الأول", "order": 1 },
    { "id": 2, "text": "الحدث الثاني", "order": 2 }
  ]
}`, storyContent)
	default: // quiz
		return fmt.Sprintf(`بناءً على القصة التالية، قم بإنشاء اختبار معلومات للأطفال:

%s

أنشئ 5-8 أسئلة اختيار من متعدد مع 4 خيارات لكل سؤال.

قم بإرجاع البيانات بتنسيق JSON فقط بالشكل التالي:
{
  "title": "عنوان الاختبار",
  "instructions": "تعليمات الاختبار",
  "questions": [
    {
      "id": 1,
      "text": "السؤال الأول؟",
      "options": ["الإجابة الصحيحة", "خيار خاطئ 1", "خيار خاطئ 2", "خيار خاطئ 3"],
      "answer": "الإجابة الصحيحة"
    }
  ]
}`, storyContent)
	}
}

const ideasSystemPrompt = "أنت مساعد متخصص في تصميم أنشطة تعليمية للأطفال باللغة العربية. تصمم أنشطة مبتكرة ومرتبطة بالقصص التعليمية."

func ideasUserPrompt(storyContent, activityLabel string) string {
	return fmt.Sprintf(`بناءً على القصة التالية، اقترح %s تعليمي مناسب للأطفال:

%s

قدم تفاصيل كاملة للنشاط بما في ذلك الأسئلة والإجابات إن وجدت.
اجعل النشاط مرتبطًا بشكل مباشر بموضوع القصة وشخصياتها.`, activityLabel, storyContent)
}

const imagePromptSystemPrompt = "أنت مساعد متخصص في كتابة أوصاف دقيقة للصور بناءً على قصص للأطفال. تكتب أوصافًا تفصيلية باللغة الإنجليزية لتوليد صور جذابة ومناسبة للأطفال."

func imagePromptUserPrompt(storyContent, scene string) string {
	return fmt.Sprintf(`بناءً على القصة التالية والمشهد المحدد، اكتب وصفًا تفصيليًا باللغة الإنجليزية يمكن استخدامه لتوليد صورة:

القصة: %s

المشهد: %s

اكتب وصفًا تفصيليًا للصورة بالإنجليزية (لأن مولدات الصور تعمل بشكل أفضل باللغة الإنجليزية).
ركز على الشخصيات والمشهد والألوان والتفاصيل المهمة.
اجعل الوصف مناسبًا للأطفال وبأسلوب رسوم متحركة جميل.`, storyContent, scene)
}

const coloringSystemPrompt = "You are a specialist in creating prompts for generating children's coloring book illustrations. You create detailed descriptions that result in simple, clear line drawings suitable for children to color."

func coloringUserPrompt(storyContent, character string) string {
	return fmt.Sprintf(`Based on the following children's story, create a detailed prompt for generating a simple,
flat, black and white line drawing suitable for a coloring page featuring the character or scene described:

Story: %s

Character/Scene: %s

The prompt should describe a simple, clear outline drawing with:
- Clean, distinct lines
- No shading or complex textures
- Child-friendly content
- Simple background elements
- Focus on the main character/scene
- Suitable for printing as a coloring page

Write the prompt in English, optimized for generating a coloring page illustration.`, storyContent, character)
}
