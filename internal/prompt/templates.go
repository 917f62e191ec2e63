package prompt

// Raw templates filled by the builder functions in this package. Indexed
// fmt verbs keep repeated values in sync. Markdown fences are spliced in
// because raw string literals cannot hold backticks.

const generationTemplate = `You are an expert Java programming instructor creating educational code with specific deliberate errors for students to practice code review skills.

MAIN TASK:
Generate a %[1]s Java program for a %[2]s system that contains EXACTLY %[3]d intentional errors for a code review exercise.

CODE STRUCTURE REQUIREMENTS:
- Create %[4]s
- Make the code realistic, well-structured, and appropriate for a %[2]s application
- Follow standard Java conventions for all correct parts of the code
- The code should look professional except for the deliberate errors

%[5]s

ERROR IMPLEMENTATION REQUIREMENTS:
- Implement EXACTLY %[3]d errors - this is CRITICAL (no more, no fewer)
- Only implement the SPECIFIC errors listed below
- Each error must be an actual Java error, not just a comment
- In the annotated version, mark each error with a comment: // ERROR: [TYPE] - [NAME] - [Brief explanation]
- NEVER add comments like "// added to fix" or "// this is incorrect" - the errors are meant to remain as errors!
- Ensure errors are findable through code review (not just runtime errors)

EXACTLY %[3]d ERRORS TO IMPLEMENT:

%[6]s

VERIFICATION CHECKLIST (COMPLETE BEFORE SUBMITTING):
- [ ] Code follows the %[1]s/%[7]s complexity requirements
- [ ] Code is realistic and appropriate for a %[2]s application
- [ ] EXACTLY %[3]d errors are implemented (no more, no fewer)
- [ ] Each implemented error matches one from the requested list
- [ ] All errors are marked with appropriate comments in the annotated version
- [ ] The clean version has the same errors but without the comments
- [ ] Both versions would compile (except for deliberate compilation errors)

OUTPUT FORMAT:
1. First, provide the ANNOTATED VERSION with error comments:
` + "```java-annotated\n" + `// Your code with error annotations
` + "```" + `

2. Then, provide the CLEAN VERSION without any error comments:
` + "```java-clean\n" + `// The same code with the same errors but no error annotations
` + "```" + `

IMPORTANT: Verify you have implemented EXACTLY %[3]d errors before completing.`

const beginnerInstructions = `BEGINNER-FRIENDLY CODE REQUIREMENTS:
- Use very descriptive variable/method names (studentName, calculateTotal)
- Keep methods short (3-10 lines each) and focused on a single task
- Use basic control structures (if/else, simple loops) with clear conditions
- Include helpful comments explaining the code's purpose
- Avoid complex nested structures or advanced Java features
- Make errors relatively obvious for educational purposes
- Implement errors in a way that beginners can reasonably identify them`

const intermediateInstructions = `INTERMEDIATE-LEVEL CODE REQUIREMENTS:
- Use a mix of simple and moderately complex code structures
- Include a variety of control structures and data types
- Keep methods reasonably sized (5-15 lines)
- Implement some errors that require careful reading to identify
- Add appropriate documentation where needed
- Create realistic code that might appear in a small application
- Balance obvious errors with some more subtle ones`

const advancedInstructions = `ADVANCED-LEVEL CODE REQUIREMENTS:
- Create more sophisticated code structures with appropriate complexity
- Implement errors that might be hidden in logical flow or edge cases
- Use a variety of Java features and design patterns when appropriate
- Challenge the student to think deeply about the code
- Include subtle errors that require careful analysis to identify
- Create realistic code that follows good structure despite the errors
- Implement errors that interact with each other in non-obvious ways`

const evaluationTemplate = `As a Java code quality expert, your task is to analyze Java code to determine if it correctly implements specific requested errors.

MAIN TASK:
Evaluate if the provided Java code correctly implements EXACTLY %[2]d specific errors that were requested.

CODE TO EVALUATE:
` + "```java\n" + `%[1]s
` + "```" + `

THE %[2]d SPECIFIC ERRORS THAT SHOULD BE PRESENT:
%[3]s

EVALUATION INSTRUCTIONS:
1. Examine the code line by line, identifying each error that matches the requested list
2. For each error you find, note:
- The specific error type and name
- The exact line number(s) where it appears
- A brief code segment showing the error
- A concise explanation of why it matches the requested error
3. Check if any requested errors are missing from the code
4. For valid implementation, the code must contain EXACTLY %[2]d errors - no more, no fewer

RESPONSE FORMAT:
Your evaluation must be returned in this JSON format:

` + "```json\n" + `{
"found_errors": [
    {
    "error_type": "LOGICAL",
    "error_name": "Null pointer dereference",
    "line_number": 42,
    "code_segment": "String str = null; int length = str.length();",
    "explanation": "This code will throw a NullPointerException because it calls length() on a null String"
    }
    // List all implemented errors that match the requested list
],
"missing_errors": [
    {
    "error_type": "STANDARD VIOLATION",
    "error_name": "Poor variable naming",
    "explanation": "The code doesn't contain any variable names that violate naming conventions"
    }
    // List all requested errors that aren't implemented
],
"valid": true,  // Set to true ONLY if ALL requested errors are implemented, no more and no fewer
"feedback": "The code successfully implements all %[2]d requested errors."  // Provide brief overall assessment
}
` + "```" + `

VERIFICATION CHECKLIST:
- Confirm that each found error truly matches the corresponding requested error
- Verify that the total count of found errors is EXACTLY %[2]d for validity
- Double-check any errors you believe are missing to ensure they're truly absent
- Ensure your JSON response is properly formatted for processing

IMPORTANT: Focus solely on the specified error types and names, not general code quality issues.`

const regenerationTemplate = `You are an expert Java programming instructor revising educational code that does not yet contain the right set of deliberate errors.

MAIN TASK:
Revise the provided Java code for a %[2]s application so it contains EXACTLY %[1]d intentional errors: every error listed as missing must be added, every error listed as implemented must be kept, and nothing else may change.

CURRENT CODE:
` + "```java\n" + `%[3]s
` + "```" + `

ERRORS TO ADD (missing from the current code):
%[4]s

ERRORS TO KEEP (already implemented correctly):
%[5]s

REVISION REQUIREMENTS:
- Add every missing error listed above
- Keep every correctly implemented error exactly as it is
- Remove any deliberate error that is not on the requested list
- Do not fix, improve, or restructure unrelated parts of the code
- Mark each error in the annotated version with a comment: // ERROR: [TYPE] - [NAME] - [Brief explanation]

OUTPUT FORMAT:
1. First, provide the ANNOTATED VERSION with error comments:
` + "```java-annotated\n" + `// Your code with error annotations
` + "```" + `

2. Then, provide the CLEAN VERSION without any error comments:
` + "```java-clean\n" + `// The same code with the same errors but no error annotations
` + "```" + `

IMPORTANT: Verify you have implemented EXACTLY %[1]d errors before completing.`

const reviewAnalysisTemplate = `You are an educational assessment specialist analyzing a student's Java code review skills.

MAIN TASK:
Analyze the student's code review against a set of known issues to evaluate their code review effectiveness.

CODE BEING REVIEWED:
` + "```java\n" + `%[1]s
` + "```" + `

%[2]d KNOWN ISSUES IN THE CODE:
%[3]s

STUDENT'S REVIEW SUBMISSION:
` + "```\n" + `%[4]s
` + "```" + `

ANALYSIS INSTRUCTIONS:
1. Carefully read both the code and the student's review
2. Identify which of the known issues the student correctly found
3. Note which known issues the student missed
4. Identify any false positives (things the student flagged as issues that aren't actual problems)
5. Evaluate the review quality (accuracy, completeness, clarity, and specificity)
6. Determine if the review is sufficient (>= 60%% of issues correctly identified)

RESPONSE REQUIREMENTS:
Provide your analysis in JSON format with these components:

` + "```json\n" + `{
"identified_problems": [
    {
    "problem": "SPECIFIC KNOWN ISSUE TEXT",
    "student_comment": "STUDENT'S RELEVANT COMMENT",
    "accuracy": 0.9,
    "feedback": "Brief feedback on this identification"
    }
    // Include all correctly identified issues
],
"missed_problems": [
    {
    "problem": "SPECIFIC KNOWN ISSUE TEXT",
    "hint": "A helpful educational hint for finding this type of issue"
    }
    // Include all missed issues
],
"false_positives": [
    {
    "student_comment": "STUDENT'S INCORRECT COMMENT",
    "explanation": "Why this isn't actually an issue"
    }
    // Include any incorrect identifications
],
"identified_count": 3,  // Number of correctly identified issues
"total_problems": %[2]d,  // Total number of known issues
"identified_percentage": 60.0,  // Percentage of issues correctly identified
"review_quality_score": 7.5,  // Score from 1-10 rating review quality
"review_sufficient": true,  // true if >= 60%% of issues identified
"feedback": "Overall assessment with specific improvement suggestions"
}
` + "```" + `

EVALUATION CRITERIA:
- For matching student comments to known issues, look for:
- Correct identification of the issue type
- Accurate location (line number or description)
- Understanding of why it's a problem
- Consider partial credit if they identified an issue but misunderstood it
- A review is sufficient if the student correctly identified at least 60%% of known issues

TIPS FOR ANALYSIS:
- Be thorough in examining every part of the student's review
- Be generous in matching student comments to issues if they show understanding
- Provide educational feedback that helps the student improve their code review skills
- If the student uses different terminology but correctly identifies an issue, count it as correct`

const guidanceTemplate = `As a Java mentor providing targeted code review guidance, create concise feedback for a student.

CONTEXT:
- Student completed review attempt %[1]d of %[2]d
- Found %[3]d/%[4]d issues (%[5]s%%)
- %[6]d review attempts remaining

CORRECTLY IDENTIFIED ISSUES:
%[7]s

MISSED ISSUES:
%[8]s

TASK:
Create brief, specific guidance (3-4 sentences max) to help the student find more issues in their next review attempt.

GUIDANCE REQUIREMENTS:
1. Be extremely concise and focused (max 3-4 short sentences)
2. Target the most important 1-2 areas for improvement
3. Provide specific, actionable strategies (what to look for)
4. Be encouraging but direct
5. Focus only on helping them find missed issues, not general code review skills

EXAMPLE GOOD GUIDANCE:
"Look more carefully at method parameters and return types. Several issues involve type mismatches that can be spotted by comparing declared types with actual values. Also check for proper null handling before method calls."

EXAMPLE POOR GUIDANCE (too general):
"Keep trying to find more issues. There are several problems in the code that you missed. Try to be more thorough in your next review attempt."

RESPONSE FORMAT:
Provide ONLY the guidance text with no introduction or explanation.`

const reportTemplate = `You are an educational assessment expert creating a detailed, informative code review feedback report for a Java programming student.

CONTEXT:
The student has conducted a code review exercise, identifying errors in a Java code snippet. Your task is to create a comprehensive, educational report on their performance.

PERFORMANCE METRICS:
- Total issues in the code: %[1]d
- Issues correctly identified: %[2]d (%[3]s%%)
- Issues missed: %[4]d
- False positives (things incorrectly flagged as issues): %[5]d

CORRECTLY IDENTIFIED ISSUES:
%[6]s

MISSED ISSUES:
%[7]s

FALSE POSITIVES:
%[8]s

%[9]s

REPORT REQUIREMENTS:
1. Create a comprehensive educational report in markdown format
2. Include these sections:
- Performance Summary (with metrics and overall assessment)
- Correctly Identified Issues (with praise for what they found correctly)
- Missed Issues (with educational explanations of why they matter)
- False Positives (if any, with explanations of why these aren't actual issues)
- Progress Analysis (if multiple attempts, analyzing their improvement)
- Tips for Improvement (specific, actionable advice based on their performance)

3. Be educational and constructive, not just evaluative
4. Use a warm, encouraging tone while maintaining honesty about areas for improvement
5. Focus on helping them become a better code reviewer, not just scoring this attempt
6. Highlight patterns in what they missed or found to help them improve systematically
7. Include specific Java code review tips relevant to their performance
8. Make the report visually readable with appropriate markdown formatting

IMPORTANT FORMATTING:
- Use markdown for clear organization (headers, bullet points, etc.)
- Format code snippets in markdown code blocks if referring to specific code
- Use bold or italic text for emphasis where appropriate
- Keep paragraphs reasonably short for readability`
